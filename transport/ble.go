package transport

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"tinygo.org/x/bluetooth"

	"meshscout/serialize/mesh"
)

const bleScanTimeout = 15 * time.Second

var (
	bleServiceUUID   = mustUUID("5c42a1f0-9e8b-4e0a-8f77-3b1d26c0a001")
	bleToRadioUUID   = mustUUID("5c42a1f0-9e8b-4e0a-8f77-3b1d26c0a002")
	bleFromRadioUUID = mustUUID("5c42a1f0-9e8b-4e0a-8f77-3b1d26c0a003")
)

func mustUUID(s string) bluetooth.UUID {
	u, err := bluetooth.ParseUUID(s)
	if err != nil {
		panic(err)
	}
	return u
}

// bleConn is a Conn over a short-range wireless link. Characteristic
// writes and notifications are already message-delimited, so no frame
// codec is involved.
type bleConn struct {
	*base
	device  bluetooth.Device
	toRadio bluetooth.DeviceCharacteristic

	sendMu    sync.Mutex
	closeOnce sync.Once
}

// DialBLE connects to a device advertising the mesh client service.
// The address is either a MAC or the advertised device name.
func DialBLE(address string) (Conn, error) {
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, &ConnectError{Address: address, Err: err}
	}

	target, err := scanFor(adapter, address)
	if err != nil {
		return nil, &ConnectError{Address: address, Err: err}
	}

	device, err := adapter.Connect(target, bluetooth.ConnectionParams{})
	if err != nil {
		return nil, &ConnectError{Address: address, Err: err}
	}

	c := &bleConn{
		base:   newBase(),
		device: device,
	}
	if err := c.setup(); err != nil {
		c.device.Disconnect()
		return nil, &ConnectError{Address: address, Err: err}
	}

	if err := c.handshake(c.Send); err != nil {
		c.Close()
		return nil, &ConnectError{Address: address, Err: err}
	}

	c.wg.Add(1)
	go c.dispatchLoop()
	return c, nil
}

// scanFor looks for an advertisement matching the MAC or local name
func scanFor(adapter *bluetooth.Adapter, address string) (bluetooth.Address, error) {
	found := make(chan bluetooth.Address, 1)
	scanErr := make(chan error, 1)

	go func() {
		err := adapter.Scan(func(a *bluetooth.Adapter, result bluetooth.ScanResult) {
			if !matchesAddress(result, address) {
				return
			}
			a.StopScan()
			select {
			case found <- result.Address:
			default:
			}
		})
		if err != nil {
			scanErr <- err
		}
	}()

	select {
	case addr := <-found:
		return addr, nil
	case err := <-scanErr:
		return bluetooth.Address{}, err
	case <-time.After(bleScanTimeout):
		adapter.StopScan()
		return bluetooth.Address{}, fmt.Errorf("no device %q found within %v", address, bleScanTimeout)
	}
}

func matchesAddress(result bluetooth.ScanResult, address string) bool {
	if strings.EqualFold(result.Address.String(), address) {
		return true
	}
	return result.LocalName() == address
}

func (c *bleConn) setup() error {
	services, err := c.device.DiscoverServices([]bluetooth.UUID{bleServiceUUID})
	if err != nil {
		return fmt.Errorf("discover mesh service: %w", err)
	}
	if len(services) == 0 {
		return fmt.Errorf("device does not expose the mesh client service")
	}

	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{
		bleToRadioUUID, bleFromRadioUUID,
	})
	if err != nil {
		return fmt.Errorf("discover mesh characteristics: %w", err)
	}
	if len(chars) < 2 {
		return fmt.Errorf("mesh service is missing characteristics")
	}

	var fromRadio bluetooth.DeviceCharacteristic
	for _, ch := range chars {
		switch ch.UUID() {
		case bleToRadioUUID:
			c.toRadio = ch
		case bleFromRadioUUID:
			fromRadio = ch
		}
	}

	return fromRadio.EnableNotifications(func(buf []byte) {
		data := make([]byte, len(buf))
		copy(data, buf)
		c.deliver(data)
	})
}

func (c *bleConn) Send(msg mesh.Message) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	_, err := c.toRadio.WriteWithoutResponse(msg.Marshal())
	return err
}

func (c *bleConn) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		c.device.Disconnect()
		c.wg.Wait()
	})
	return nil
}
