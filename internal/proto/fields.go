package proto

import (
	"math"

	"google.golang.org/protobuf/types/known/structpb"
)

// Message keys.
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldPhoneNumber     = "phone_number"
	FieldAddress         = "address"
	FieldActivationToken = "activation_token"
	FieldActivationCode  = "activation_code"
	FieldAccessToken     = "access_token"
	FieldRefreshToken    = "refresh_token"
	FieldUser            = "user"
	FieldUsers           = "users"
	FieldError           = "error"
	FieldMessage         = "message"
	FieldID              = "id"
	FieldRole            = "role"
	FieldCreatedAt       = "created_at"
	FieldUpdatedAt       = "updated_at"
)

// String returns the string at key, or "" when absent or of another kind.
func String(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

// Int returns the integral number at key. Fractional, out-of-range and
// non-numeric values read as 0.
func Int(s *structpb.Struct, key string) int64 {
	v, ok := s.GetFields()[key].GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0
	}
	n := v.NumberValue
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if n != math.Trunc(n) || n >= math.MaxInt64 || n < math.MinInt64 {
		return 0
	}
	return int64(n)
}

// Struct returns the nested object at key, or nil.
func Struct(s *structpb.Struct, key string) *structpb.Struct {
	return s.GetFields()[key].GetStructValue()
}
