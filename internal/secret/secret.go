// Package secret 对存入数据库的敏感配置（AI API Key）做对称加密。
package secret

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	sealedPrefix = "sealed:v1:"
	nonceSize    = 24
	keyInfo      = "chronitrack settings"
)

// ErrOpenFailed 表示密文被篡改或密钥不匹配。
var ErrOpenFailed = errors.New("secret: unable to open sealed value")

// Box 使用由应用密钥派生出的 32 字节密钥进行加解密。
type Box struct {
	key [32]byte
}

// NewBox 通过 HKDF-SHA256 从任意长度的应用密钥派生加密密钥。
func NewBox(appSecret string) (*Box, error) {
	if strings.TrimSpace(appSecret) == "" {
		return nil, errors.New("secret: app secret is required")
	}

	b := &Box{}
	reader := hkdf.New(sha256.New, []byte(appSecret), nil, []byte(keyInfo))
	if _, err := io.ReadFull(reader, b.key[:]); err != nil {
		return nil, fmt.Errorf("secret: derive key: %w", err)
	}
	return b, nil
}

// Seal 加密明文，空字符串原样返回。
func (b *Box) Seal(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}

	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("secret: read nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], []byte(plain), &nonce, &b.key)
	return sealedPrefix + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open 解密 Seal 的输出；不带前缀的值视为历史明文直接返回。
func (b *Box) Open(value string) (string, error) {
	if value == "" || !IsSealed(value) {
		return value, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(value, sealedPrefix))
	if err != nil || len(raw) < nonceSize {
		return "", ErrOpenFailed
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])

	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &b.key)
	if !ok {
		return "", ErrOpenFailed
	}
	return string(plain), nil
}

// IsSealed 判断值是否由 Seal 生成。
func IsSealed(value string) bool {
	return strings.HasPrefix(value, sealedPrefix)
}

// Mask 返回仅保留末四位的掩码形式，用于接口回显。
func Mask(plain string) string {
	runes := []rune(plain)
	if len(runes) == 0 {
		return ""
	}
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-4:])
}
