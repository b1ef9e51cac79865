package model

import (
	"encoding/binary"
	"hash"

	"github.com/minio/highwayhash"
)

// digestKey is fixed so that digests are comparable across runs
var digestKey = []byte("repack-resource-digest-key-00001")

// Digest returns 64 bit highway hash of payload
func Digest(payload []byte) (uint64, error) {
	hasher, err := highwayhash.New64(digestKey)
	if err != nil {
		return 0, err
	}
	if _, err = hasher.Write(payload); err != nil {
		return 0, err
	}
	return hasher.Sum64(), nil
}

// Digest returns highway hash over entry names and payloads, in entry order
func (r *Resource) Digest() (uint64, error) {
	hasher, err := highwayhash.New64(digestKey)
	if err != nil {
		return 0, err
	}
	for _, entry := range r.Entries {
		if err = writeChunk(hasher, []byte(entry.Name)); err != nil {
			return 0, err
		}
		if err = writeChunk(hasher, entry.Data); err != nil {
			return 0, err
		}
	}
	return hasher.Sum64(), nil
}

// writeChunk writes length prefixed data so that entry boundaries affect the digest
func writeChunk(hasher hash.Hash64, data []byte) error {
	var size [8]byte
	binary.LittleEndian.PutUint64(size[:], uint64(len(data)))
	if _, err := hasher.Write(size[:]); err != nil {
		return err
	}
	_, err := hasher.Write(data)
	return err
}
