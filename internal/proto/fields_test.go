package proto

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestAccessors(t *testing.T) {
	s, err := structpb.NewStruct(map[string]any{
		FieldEmail:       "alice@x.com",
		FieldPhoneNumber: 555123,
		FieldAddress:     12.5,
		FieldUser:        map[string]any{FieldID: "u-1"},
	})
	require.NoError(t, err)

	assert.Equal(t, "alice@x.com", String(s, FieldEmail))
	assert.Equal(t, "", String(s, FieldName))
	assert.Equal(t, "", String(s, FieldPhoneNumber))

	assert.Equal(t, int64(555123), Int(s, FieldPhoneNumber))
	assert.Equal(t, int64(0), Int(s, FieldAddress), "fractional")
	assert.Equal(t, int64(0), Int(s, FieldEmail), "string")
	assert.Equal(t, int64(0), Int(s, "missing"))

	assert.Equal(t, "u-1", String(Struct(s, FieldUser), FieldID))
	assert.Nil(t, Struct(s, FieldEmail))
}

func TestAccessors_NilStruct(t *testing.T) {
	assert.Equal(t, "", String(nil, FieldEmail))
	assert.Equal(t, int64(0), Int(nil, FieldPhoneNumber))
	assert.Nil(t, Struct(nil, FieldUser))
}

func TestInt_Bounds(t *testing.T) {
	tests := []struct {
		name string
		n    float64
		want int64
	}{
		{"two to the 63", math.Exp2(63), 0},
		{"above range", math.Exp2(64), 0},
		{"largest below range", math.Exp2(62), 1 << 62},
		{"minimum", math.Exp2(63) * -1, math.MinInt64},
		{"below minimum", math.Exp2(64) * -1, 0},
		{"infinity", math.Inf(1), 0},
		{"nan", math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &structpb.Struct{Fields: map[string]*structpb.Value{
				FieldPhoneNumber: structpb.NewNumberValue(tt.n),
			}}
			assert.Equal(t, tt.want, Int(s, FieldPhoneNumber))
		})
	}
}
