package common

import (
	"crypto/rand"
	"crypto/subtle"
	"math/big"

	"golang.org/x/crypto/argon2"
)

const SaltLen = 8

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

func RandStringRunes(n int) string {
	b := make([]rune, n)
	max := big.NewInt(int64(len(letterRunes)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		b[i] = letterRunes[idx.Int64()]
	}
	return string(b)
}

// HashPass returns the salt followed by the argon2id hash of pass.
func HashPass(pass, salt string) []byte {
	hashed := argon2.IDKey([]byte(pass), []byte(salt), 1, 64*1024, 4, 32)
	res := make([]byte, 0, len(salt)+len(hashed))
	res = append(res, salt...)
	return append(res, hashed...)
}

// CheckPass compares pass against a value produced by HashPass.
func CheckPass(pass string, hashed []byte) bool {
	if len(hashed) <= SaltLen {
		return false
	}
	salt := string(hashed[:SaltLen])
	return subtle.ConstantTimeCompare(HashPass(pass, salt), hashed) == 1
}
