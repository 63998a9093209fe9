package common

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
)

// RandomNumericCode returns a uniformly distributed decimal number in [min, max]
// drawn from crypto/rand, formatted without padding.
func RandomNumericCode(min, max int64) (string, error) {
	if max < min {
		return "", fmt.Errorf("invalid code range [%d, %d]", min, max)
	}

	n, err := rand.Int(rand.Reader, big.NewInt(max-min+1))
	if err != nil {
		return "", err
	}

	return strconv.FormatInt(n.Int64()+min, 10), nil
}
