package utils

import (
	"encoding/base64"

	"github.com/forgoer/openssl"
)

// AesEncryptECB 加密后base64编码
func AesEncryptECB(origData, key string) (string, error) {
	data, err := openssl.AesECBEncrypt([]byte(origData), []byte(key), openssl.PKCS7_PADDING)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// AesDecryptECB base64解码后解密
func AesDecryptECB(origData, key string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(origData)
	if err != nil {
		return "", err
	}
	data, err = openssl.AesECBDecrypt(data, []byte(key), openssl.PKCS7_PADDING)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
