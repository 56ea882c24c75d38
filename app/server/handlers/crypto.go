package handlers

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

func (a *App) aesDecrypt(encryptedData []byte) ([]byte, error) {
	c, err := aes.NewCipher(a.esk)
	if err != nil {
		return nil, fmt.Errorf("could not create new cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(c)
	if err != nil {
		return nil, fmt.Errorf("could not create GCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(encryptedData) < nonceSize {
		return nil, fmt.Errorf("encrypted data too short")
	}

	nonce, ciphertext := encryptedData[:nonceSize], encryptedData[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("could not decrypt ciphertext: %w", err)
	}

	return plaintext, nil
}

func (a *App) aesEncrypt(plaintext []byte) ([]byte, error) {
	c, err := aes.NewCipher(a.esk)
	if err != nil {
		return nil, fmt.Errorf("could not create new cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(c)
	if err != nil {
		return nil, fmt.Errorf("could not create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())

	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("could not generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)
	return ciphertext, nil
}

// 备注为空时不加密，数据库里存 NULL
func (a *App) encryptNotes(notes string) ([]byte, error) {
	if notes == "" {
		return nil, nil
	}
	return a.aesEncrypt([]byte(notes))
}

func (a *App) decryptNotes(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	plain, err := a.aesDecrypt(data)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
