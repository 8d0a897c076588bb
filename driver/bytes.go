package driver

import "unsafe"

// Float32Bytes reinterprets a float32 slice as bytes without copying.
func Float32Bytes(v []float32) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*4) //nolint:gosec // read-only view for upload
}

// Uint16Bytes reinterprets a uint16 slice as bytes without copying.
func Uint16Bytes(v []uint16) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*2) //nolint:gosec // read-only view for upload
}

// Int32Bytes reinterprets an int32 slice as bytes without copying.
func Int32Bytes(v []int32) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*4) //nolint:gosec // read-only view for upload
}

// TypeSize returns the size in bytes of one element of the given data type,
// or 0 for an unknown type.
func TypeSize(t Enum) int {
	switch t {
	case Byte, UnsignedByte:
		return 1
	case Short, UnsignedShort:
		return 2
	case Int, UnsignedInt, Float:
		return 4
	case Double:
		return 8
	}
	return 0
}
