package tensor

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/tensorflow/tensorboard-sub001/internal/shape"
)

// ErrMalformedFile is returned for files that do not follow their format.
var ErrMalformedFile = errors.New("malformed tensor file")

// maxHeaderSize bounds the JSON header of a safetensors file.
const maxHeaderSize = 100 << 20

type safetensorsEntry struct {
	DType   string `json:"dtype"`
	Shape   []int  `json:"shape"`
	Offsets [2]int `json:"data_offsets"`
}

// LoadSafetensors reads every tensor of a safetensors file.
func LoadSafetensors(path string) ([]Named, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseSafetensors(data)
}

// ParseSafetensors decodes a safetensors buffer: an 8 byte little-endian
// header length, a JSON header mapping names to dtype, shape and byte
// offsets, then the raw little-endian payload. Tensors are returned sorted
// by name.
func ParseSafetensors(data []byte) ([]Named, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("%w: need at least 8 bytes for header size", ErrMalformedFile)
	}

	headerSize := binary.LittleEndian.Uint64(data[:8])
	if headerSize > maxHeaderSize || headerSize > uint64(len(data)-8) {
		return nil, fmt.Errorf("%w: header size %d but only %d bytes available", ErrMalformedFile, headerSize, len(data)-8)
	}

	var header map[string]json.RawMessage
	if err := json.Unmarshal(data[8:8+headerSize], &header); err != nil {
		return nil, fmt.Errorf("%w: failed to parse header: %v", ErrMalformedFile, err)
	}
	payload := data[8+headerSize:]

	tensors := make([]Named, 0, len(header))
	for name, raw := range header {
		if name == "__metadata__" {
			continue
		}

		var entry safetensorsEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, fmt.Errorf("%w: tensor %s: %v", ErrMalformedFile, name, err)
		}
		view, err := decodeSafetensor(entry, payload)
		if err != nil {
			return nil, fmt.Errorf("tensor %s: %w", name, err)
		}
		tensors = append(tensors, Named{Name: name, View: view})
	}

	sortNamed(tensors)
	return tensors, nil
}

func decodeSafetensor(entry safetensorsEntry, payload []byte) (*Dense, error) {
	dtype, size, err := parseSafetensorsDType(entry.DType)
	if err != nil {
		return nil, err
	}

	s := shape.Shape(entry.Shape)
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFile, err)
	}

	begin, end := entry.Offsets[0], entry.Offsets[1]
	n := s.NumElements()
	if begin < 0 || end < begin || end > len(payload) {
		return nil, fmt.Errorf("%w: data offsets [%d, %d) outside payload of %d bytes", ErrMalformedFile, begin, end, len(payload))
	}
	if (end-begin)%size != 0 || (end-begin)/size != n {
		return nil, fmt.Errorf("%w: %d bytes for %d elements of %s", ErrMalformedFile, end-begin, n, dtype)
	}

	raw := payload[begin:end]
	values := make([]float64, n)
	for i := range values {
		values[i] = decodeElement(dtype, raw[i*size:(i+1)*size])
	}
	return NewDense(dtype, s, values)
}

func decodeElement(dtype DType, b []byte) float64 {
	switch dtype {
	case Float64:
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	case Float32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	case Float16:
		return float64(float16ToFloat32(binary.LittleEndian.Uint16(b)))
	case BFloat16:
		// bfloat16 is the top half of a float32
		return float64(math.Float32frombits(uint32(binary.LittleEndian.Uint16(b)) << 16))
	case Int64:
		return float64(int64(binary.LittleEndian.Uint64(b)))
	case Int32:
		return float64(int32(binary.LittleEndian.Uint32(b)))
	case Int16:
		return float64(int16(binary.LittleEndian.Uint16(b)))
	case Int8:
		return float64(int8(b[0]))
	case Uint64:
		return float64(binary.LittleEndian.Uint64(b))
	case Uint32:
		return float64(binary.LittleEndian.Uint32(b))
	case Uint16:
		return float64(binary.LittleEndian.Uint16(b))
	case Uint8, Bool:
		return float64(b[0])
	}
	return math.NaN()
}

func float16ToFloat32(h uint16) float32 {
	sign := uint32(h>>15) << 31
	exponent := int32((h >> 10) & 0x1f)
	mantissa := uint32(h & 0x3ff)

	switch {
	case exponent == 0 && mantissa == 0:
		return math.Float32frombits(sign)
	case exponent == 0:
		// Subnormal: normalize the mantissa.
		e := int32(1)
		for mantissa&0x400 == 0 {
			mantissa <<= 1
			e--
		}
		mantissa &= 0x3ff
		return math.Float32frombits(sign | uint32(e+127-15)<<23 | mantissa<<13)
	case exponent == 0x1f:
		return math.Float32frombits(sign | 0xff<<23 | mantissa<<13)
	}
	return math.Float32frombits(sign | uint32(exponent+127-15)<<23 | mantissa<<13)
}
