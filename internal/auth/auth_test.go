package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/reparto-app/reparto-sales-service/internal/models"
)

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	operator := &models.Operator{ID: "op_1", Email: "driver@reparto.test"}

	token, err := manager.Generate(operator)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if claims.OperatorID != operator.ID {
		t.Errorf("OperatorID = %s, want %s", claims.OperatorID, operator.ID)
	}
	if claims.Email != operator.Email {
		t.Errorf("Email = %s, want %s", claims.Email, operator.Email)
	}
}

func TestJWTManager_Validate_WrongSecret(t *testing.T) {
	token, err := NewJWTManager("secret-a", time.Hour).Generate(&models.Operator{ID: "op_1"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := NewJWTManager("secret-b", time.Hour).Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTManager_Validate_Expired(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute)
	token, err := manager.Generate(&models.Operator{ID: "op_1"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTManager_Validate_Garbage(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	if _, err := manager.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if err := CheckPassword(hash, "hunter22"); err != nil {
		t.Errorf("CheckPassword() with correct password = %v", err)
	}
	if err := CheckPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}
