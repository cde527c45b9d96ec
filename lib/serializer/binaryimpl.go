package serializer

import (
	"encoding/binary"
	"fmt"
)

// NewBinarySerializer creates a new serializer for byte-payload maps using
// a custom binary format optimized for speed and efficiency
func NewBinarySerializer() ISerializer[string, []byte] {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements ISerializer[string, []byte] using a
// custom binary format
type binarySerializerImpl struct {
}

const (
	binaryMagic   = "OMAP\x00"
	binaryVersion = 1

	// flag bits of the header
	hasTrackChanges byte = 1 << 0

	// length marker for nil values (distinct from empty values)
	nilValueLen uint32 = 0xFFFFFFFF
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (s binarySerializerImpl) Serialize(state State[string, []byte]) ([]byte, error) {
	// Calculate total size needed
	totalSize := len(binaryMagic) + 1 + 1 + 4 // magic, version, flags, entry count
	for key, value := range state.Entries {
		totalSize += 4 + len(key) + 4 + len(value)
	}

	result := make([]byte, totalSize)
	pos := 0

	// Write header
	copy(result[pos:], binaryMagic)
	pos += len(binaryMagic)
	result[pos] = binaryVersion
	pos++

	var flags byte
	if state.TrackChanges {
		flags |= hasTrackChanges
	}
	result[pos] = flags
	pos++

	binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(state.Entries)))
	pos += 4

	// Write entries
	for key, value := range state.Entries {
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(key)))
		pos += 4
		copy(result[pos:pos+len(key)], key)
		pos += len(key)

		if value == nil {
			binary.BigEndian.PutUint32(result[pos:pos+4], nilValueLen)
			pos += 4
			continue
		}

		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(value)))
		pos += 4
		copy(result[pos:pos+len(value)], value)
		pos += len(value)
	}

	return result, nil
}

func (s binarySerializerImpl) Deserialize(b []byte, state *State[string, []byte]) error {
	pos := 0

	// Validate header
	if len(b) < len(binaryMagic)+2+4 {
		return fmt.Errorf("data too short for header (%d bytes)", len(b))
	}
	if string(b[:len(binaryMagic)]) != binaryMagic {
		return fmt.Errorf("invalid magic number")
	}
	pos += len(binaryMagic)

	if version := b[pos]; version != binaryVersion {
		return fmt.Errorf("unsupported format version %d", version)
	}
	pos++

	flags := b[pos]
	pos++
	state.TrackChanges = flags&hasTrackChanges != 0

	count := binary.BigEndian.Uint32(b[pos : pos+4])
	pos += 4

	// Read entries
	state.Entries = make(map[string][]byte, count)
	for i := uint32(0); i < count; i++ {
		if pos+4 > len(b) {
			return fmt.Errorf("truncated key length at entry %d", i)
		}
		keyLen := int(binary.BigEndian.Uint32(b[pos : pos+4]))
		pos += 4

		if pos+keyLen > len(b) {
			return fmt.Errorf("truncated key at entry %d", i)
		}
		key := string(b[pos : pos+keyLen])
		pos += keyLen

		if pos+4 > len(b) {
			return fmt.Errorf("truncated value length at entry %d", i)
		}
		valLen := binary.BigEndian.Uint32(b[pos : pos+4])
		pos += 4

		if valLen == nilValueLen {
			state.Entries[key] = nil
			continue
		}

		if pos+int(valLen) > len(b) {
			return fmt.Errorf("truncated value at entry %d", i)
		}
		value := make([]byte, valLen)
		copy(value, b[pos:pos+int(valLen)])
		pos += int(valLen)

		state.Entries[key] = value
	}

	return nil
}
