package chain

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
)

// SLIP-0010 ed25519 key derivation. Only hardened derivation is defined for
// the ed25519 curve, so every index in an ed25519 path carries the hardened
// flag.

const slip10HardenedOffset = 0x80000000

type slip10Node struct {
	key       []byte // 32 bytes
	chainCode []byte // 32 bytes
}

// slip10Master builds the master node from a BIP-39 seed.
func slip10Master(seed []byte) slip10Node {
	mac := hmac.New(sha512.New, []byte("ed25519 seed"))
	mac.Write(seed)
	sum := mac.Sum(nil)
	return slip10Node{key: sum[:32], chainCode: sum[32:]}
}

// derive produces the hardened child at index.
func (n slip10Node) derive(index uint32) (slip10Node, error) {
	if index < slip10HardenedOffset {
		return slip10Node{}, fmt.Errorf("ed25519 derivation requires hardened index, got %d", index)
	}

	data := make([]byte, 0, 37)
	data = append(data, 0x00)
	data = append(data, n.key...)
	data = binary.BigEndian.AppendUint32(data, index)

	mac := hmac.New(sha512.New, n.chainCode)
	mac.Write(data)
	sum := mac.Sum(nil)
	return slip10Node{key: sum[:32], chainCode: sum[32:]}, nil
}

// slip10DeriveKey walks the path from the master node and returns the
// ed25519 private key at the leaf.
func slip10DeriveKey(seed []byte, path []uint32) (ed25519.PrivateKey, error) {
	node := slip10Master(seed)
	var err error
	for _, index := range path {
		node, err = node.derive(index)
		if err != nil {
			return nil, err
		}
	}
	return ed25519.NewKeyFromSeed(node.key), nil
}
