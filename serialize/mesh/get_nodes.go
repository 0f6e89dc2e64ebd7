package mesh

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// GetNodes asks the device to stream its node table
type GetNodes struct {
	*Head
}

func NewGetNodes() *GetNodes {
	return &GetNodes{
		Head: NewHeadV1(MsgGetNodes),
	}
}

func (g *GetNodes) Marshal() []byte {
	return g.Head.Marshal()
}

func (g *GetNodes) String() string {
	return fmt.Sprintf("Head %v", g.Head)
}

func UnmarshalGetNodes(data io.Reader) (*GetNodes, error) {
	result := &GetNodes{}
	var err error

	if result.Head, err = UnmarshalHead(data); err != nil {
		return nil, err
	}
	return result, nil
}

// NodesEnd terminates a node table stream and reports the local
// node's own address
type NodesEnd struct {
	*Head
	LocalNum uint32
}

func NewNodesEnd(localNum uint32) *NodesEnd {
	return &NodesEnd{
		Head:     NewHeadV1(MsgNodesEnd),
		LocalNum: localNum,
	}
}

func (n *NodesEnd) Marshal() []byte {
	result := new(bytes.Buffer)
	binary.Write(result, binary.BigEndian, n.Head.Marshal())
	binary.Write(result, binary.BigEndian, n.LocalNum)
	return result.Bytes()
}

func (n *NodesEnd) String() string {
	return fmt.Sprintf("Head %v LocalNum %08x", n.Head, n.LocalNum)
}

func UnmarshalNodesEnd(data io.Reader) (*NodesEnd, error) {
	result := &NodesEnd{}
	var err error

	if result.Head, err = UnmarshalHead(data); err != nil {
		return nil, err
	}
	if err = binary.Read(data, binary.BigEndian, &result.LocalNum); err != nil {
		return nil, err
	}
	return result, nil
}
