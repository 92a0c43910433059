package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key for a user's login session (JTI).
func (r *CacheKeyStruct) UserSessionKey(userID int) string {
	return fmt.Sprintf("login:%d", userID)
}

// PracticeDeadlineKey returns the cache key for a practice session's
// absolute deadline (Unix seconds).
func (r *CacheKeyStruct) PracticeDeadlineKey(sessionID string) string {
	return fmt.Sprintf("practice:%s:deadline", sessionID)
}

// PracticeAnswerKeyKey returns the cache key for a practice session's
// answer key hash (question id -> canonical letter).
func (r *CacheKeyStruct) PracticeAnswerKeyKey(sessionID string) string {
	return fmt.Sprintf("practice:%s:key", sessionID)
}

// PracticeAnswersKey returns the cache key for a session's autosaved
// answers hash (question id -> selected letter).
func (r *CacheKeyStruct) PracticeAnswersKey(sessionID string) string {
	return fmt.Sprintf("practice:%s:answers", sessionID)
}

var CacheKey = NewCacheKeyStruct()
