package model

import "github.com/golang-jwt/jwt/v5"

type AppClaims struct {
	UserID        int    `json:"user_id"`
	Role          string `json:"role"`
	AccountNumber string `json:"account_number"`
	AccountLevel  string `json:"account_level"`
	jwt.RegisteredClaims
}
