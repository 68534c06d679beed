package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
)

// Signer authenticates API requests with an HMAC-SHA256 signature over
// the request fields.
type Signer struct {
	secretKey []byte
	logger    *slog.Logger
}

func NewSigner(secretKey string, logger *slog.Logger) *Signer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Signer{
		secretKey: []byte(secretKey),
		logger:    logger,
	}
}

func (s *Signer) Sign(data []byte) string {
	mac := hmac.New(sha256.New, s.secretKey)
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *Signer) Verify(data []byte, signature string) (bool, error) {
	expectedSignature := s.Sign(data)

	if !hmac.Equal([]byte(expectedSignature), []byte(signature)) {
		s.logger.Warn("signature verification failed",
			slog.String("received", signature))
		return false, fmt.Errorf("invalid signature")
	}

	return true, nil
}

// SignRequest signs one money-movement request. Amount is the exact
// decimal string the caller submitted.
func (s *Signer) SignRequest(accountNumber, amount string, timestamp int64) string {
	data := fmt.Sprintf("%s:%s:%d", accountNumber, amount, timestamp)
	return s.Sign([]byte(data))
}

func (s *Signer) VerifyRequest(accountNumber, amount string, timestamp int64, signature string) (bool, error) {
	data := fmt.Sprintf("%s:%s:%d", accountNumber, amount, timestamp)
	return s.Verify([]byte(data), signature)
}
