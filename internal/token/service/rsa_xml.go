package service

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"math/big"
	"strings"

	tokenDomain "github.com/allisson/tokenbroker/internal/token/domain"
)

// rsaKeyValue is the <RSAKeyValue> document holding big-endian, base64 encoded
// key components. Public keys carry only Modulus and Exponent.
type rsaKeyValue struct {
	XMLName  xml.Name `xml:"RSAKeyValue"`
	Modulus  string   `xml:"Modulus"`
	Exponent string   `xml:"Exponent"`
	P        string   `xml:"P,omitempty"`
	Q        string   `xml:"Q,omitempty"`
	DP       string   `xml:"DP,omitempty"`
	DQ       string   `xml:"DQ,omitempty"`
	InverseQ string   `xml:"InverseQ,omitempty"`
	D        string   `xml:"D,omitempty"`
}

func unmarshalRSAKeyValue(data []byte) (*rsaKeyValue, error) {
	var doc rsaKeyValue
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid XML RSA key: %v", tokenDomain.ErrConfiguration, err)
	}
	return &doc, nil
}

func decodeComponent(name, value string) (*big.Int, error) {
	value = strings.Join(strings.Fields(value), "")
	if value == "" {
		return nil, fmt.Errorf("%w: %s is missing", tokenDomain.ErrKeyFormat, name)
	}
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not valid base64", tokenDomain.ErrKeyFormat, name)
	}
	return new(big.Int).SetBytes(raw), nil
}

func (k *rsaKeyValue) publicKey() (*rsa.PublicKey, error) {
	n, err := decodeComponent("Modulus", k.Modulus)
	if err != nil {
		return nil, err
	}
	e, err := decodeComponent("Exponent", k.Exponent)
	if err != nil {
		return nil, err
	}
	if !e.IsInt64() || e.Int64() < 3 || e.Int64() > 1<<31-1 {
		return nil, fmt.Errorf("%w: Exponent is out of range", tokenDomain.ErrKeyFormat)
	}
	return &rsa.PublicKey{N: n, E: int(e.Int64())}, nil
}

func (k *rsaKeyValue) privateKey() (*rsa.PrivateKey, error) {
	publicKey, err := k.publicKey()
	if err != nil {
		return nil, err
	}

	components := []struct {
		name  string
		value string
	}{
		{"P", k.P}, {"Q", k.Q}, {"DP", k.DP}, {"DQ", k.DQ}, {"InverseQ", k.InverseQ}, {"D", k.D},
	}
	decoded := make(map[string]*big.Int, len(components))
	for _, c := range components {
		v, err := decodeComponent(c.name, c.value)
		if err != nil {
			return nil, err
		}
		decoded[c.name] = v
	}

	privateKey := &rsa.PrivateKey{
		PublicKey: *publicKey,
		D:         decoded["D"],
		Primes:    []*big.Int{decoded["P"], decoded["Q"]},
	}
	if err := privateKey.Validate(); err != nil {
		return nil, fmt.Errorf("%w: inconsistent RSA private key: %v", tokenDomain.ErrConfiguration, err)
	}
	privateKey.Precompute()

	// CRT values are recomputed; the stored ones must agree with them.
	pre := privateKey.Precomputed
	if (pre.Dp != nil && pre.Dp.Cmp(decoded["DP"]) != 0) ||
		(pre.Dq != nil && pre.Dq.Cmp(decoded["DQ"]) != 0) ||
		(pre.Qinv != nil && pre.Qinv.Cmp(decoded["InverseQ"]) != 0) {
		return nil, fmt.Errorf("%w: RSA CRT parameters do not match the key", tokenDomain.ErrConfiguration)
	}

	return privateKey, nil
}

func encodeComponent(v *big.Int) string {
	return base64.StdEncoding.EncodeToString(v.Bytes())
}

// MarshalRSAPublicKeyXML renders publicKey as an <RSAKeyValue> document.
func MarshalRSAPublicKeyXML(publicKey *rsa.PublicKey) ([]byte, error) {
	doc := rsaKeyValue{
		Modulus:  encodeComponent(publicKey.N),
		Exponent: encodeComponent(big.NewInt(int64(publicKey.E))),
	}
	return xml.MarshalIndent(doc, "", "  ")
}

// MarshalRSAPrivateKeyXML renders privateKey, including its CRT values, as an
// <RSAKeyValue> document.
func MarshalRSAPrivateKeyXML(privateKey *rsa.PrivateKey) ([]byte, error) {
	if len(privateKey.Primes) != 2 {
		return nil, fmt.Errorf("%w: only two-prime RSA keys are supported", tokenDomain.ErrKeyFormat)
	}
	privateKey.Precompute()

	doc := rsaKeyValue{
		Modulus:  encodeComponent(privateKey.N),
		Exponent: encodeComponent(big.NewInt(int64(privateKey.E))),
		P:        encodeComponent(privateKey.Primes[0]),
		Q:        encodeComponent(privateKey.Primes[1]),
		DP:       encodeComponent(privateKey.Precomputed.Dp),
		DQ:       encodeComponent(privateKey.Precomputed.Dq),
		InverseQ: encodeComponent(privateKey.Precomputed.Qinv),
		D:        encodeComponent(privateKey.D),
	}
	return xml.MarshalIndent(doc, "", "  ")
}
