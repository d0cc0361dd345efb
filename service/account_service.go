package service

import (
	"context"
	"encoding/json"
	"fmt"
	"stellarone-api/model"
	"stellarone-api/repository"
	"time"

	"github.com/redis/go-redis/v9"
)

// AccountService reads sub-accounts, with a cache-aside layer over Redis for
// the per-user account list.
type AccountService struct {
	repo        repository.IAccountRepository
	redisClient *redis.Client
}

func NewAccountService(repo repository.IAccountRepository, redisClient *redis.Client) *AccountService {
	return &AccountService{
		repo:        repo,
		redisClient: redisClient,
	}
}

func accountsCacheKey(userID int) string {
	return fmt.Sprintf("accounts:%d", userID)
}

// ListAccountsForUser lists a user's sub-accounts, utilizing a cache-aside strategy.
func (s *AccountService) ListAccountsForUser(ctx context.Context, userID int) ([]*model.Account, error) {
	cacheKey := accountsCacheKey(userID)

	cached, err := s.redisClient.Get(ctx, cacheKey).Result()
	if err == nil {
		var accounts []*model.Account
		if err := json.Unmarshal([]byte(cached), &accounts); err == nil {
			return accounts, nil
		}
	}

	accounts, err := s.repo.GetAccountsByUserID(userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(accounts); err == nil {
		s.redisClient.Set(ctx, cacheKey, data, 10*time.Minute)
	}

	return accounts, nil
}

// InvalidateAccountCache drops the cached account list after a balance change.
func (s *AccountService) InvalidateAccountCache(ctx context.Context, userID int) {
	s.redisClient.Del(ctx, accountsCacheKey(userID))
}

// GetAllAccounts retrieves all accounts. Caching is not applied, admin data
// needs to be fresh.
func (s *AccountService) GetAllAccounts() ([]*model.Account, error) {
	return s.repo.GetAllAccounts()
}
