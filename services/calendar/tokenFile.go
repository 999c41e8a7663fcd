package calendar

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

// TokenCipher seals token files at rest. *utils.TokenCipher implements it.
type TokenCipher interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(sealed []byte) ([]byte, error)
}

// ReadTokenFile loads an OAuth token, decrypting it when cipher is set.
func ReadTokenFile(path string, cipher TokenCipher) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}
	if cipher != nil {
		if data, err = cipher.Decrypt(data); err != nil {
			return nil, err
		}
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("decode token file: %w", err)
	}
	return &tok, nil
}

// WriteTokenFile replaces path atomically with tok, readable by the owner only.
func WriteTokenFile(path string, tok *oauth2.Token, cipher TokenCipher) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if cipher != nil {
		if data, err = cipher.Encrypt(data); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".token-*")
	if err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write token file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("write token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// persistingTokenSource writes every newly minted token back to disk.
type persistingTokenSource struct {
	base   oauth2.TokenSource
	path   string
	cipher TokenCipher
	last   string
	onErr  func(error)
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != s.last {
		if err := WriteTokenFile(s.path, tok, s.cipher); err != nil && s.onErr != nil {
			s.onErr(err)
		}
		s.last = tok.AccessToken
	}
	return tok, nil
}
