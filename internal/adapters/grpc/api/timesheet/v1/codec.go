package timesheetv1

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// CodecName は content-subtype として使われるコーデック名です。
const CodecName = "json"

// Codec は電文を JSON で符号化する gRPC コーデックです。
type Codec struct{}

func init() {
	encoding.RegisterCodec(Codec{})
}

// Marshal は v を JSON に符号化します。
func (Codec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("timesheetv1: marshal %T: %w", v, err)
	}
	return b, nil
}

// Unmarshal は JSON を v に復号します。空の電文はゼロ値として扱います。
func (Codec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("timesheetv1: unmarshal %T: %w", v, err)
	}
	return nil
}

// Name はコーデック名を返します。
func (Codec) Name() string {
	return CodecName
}
