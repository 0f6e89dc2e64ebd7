package nodedb

import "encoding/binary"

// key layout:
// n:<num>   one node table entry, value is the NodeInfo codec
// m:local   the local node's numeric address, 4 bytes
var (
	nodePrefix = []byte("n:")
	localKey   = []byte("m:local")
)

func nodeKey(num uint32) []byte {
	key := make([]byte, len(nodePrefix)+4)
	copy(key, nodePrefix)
	binary.BigEndian.PutUint32(key[len(nodePrefix):], num)
	return key
}
