package auth

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// User is an account allowed to manage its own palette
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	RateLimitRPM int    `json:"rate_limit_rpm"` // Palette commands per minute, 0 = store default
	Enabled      bool   `json:"enabled"`
}

// ID returns the identity palettes are stored under
func (u *User) ID() string {
	return strings.ToLower(u.Username)
}

// UsersConfig is the on-disk shape of users.json
type UsersConfig struct {
	Users       []User   `json:"users"`
	IPWhitelist []string `json:"ip_whitelist"` // CIDR notation, empty = allow all
}

// UserStore authenticates palette API callers
type UserStore struct {
	mu          sync.RWMutex
	users       map[string]*User
	ipWhitelist []*net.IPNet
	rateLimiter *RateLimiter
	defaultRPM  int
}

// NewUserStore creates a user store from a users.json file.
// defaultRPM applies to users without their own limit; 0 disables it.
func NewUserStore(configPath string, defaultRPM int) (*UserStore, error) {
	store := newUserStore(defaultRPM)
	if err := store.LoadFromFile(configPath); err != nil {
		return nil, err
	}
	return store, nil
}

// NewUserStoreFromConfig builds a store from an already parsed config
func NewUserStoreFromConfig(cfg UsersConfig, defaultRPM int) (*UserStore, error) {
	store := newUserStore(defaultRPM)
	if err := store.apply(cfg); err != nil {
		return nil, err
	}
	return store, nil
}

func newUserStore(defaultRPM int) *UserStore {
	return &UserStore{
		users:       make(map[string]*User),
		rateLimiter: NewRateLimiter(),
		defaultRPM:  defaultRPM,
	}
}

// LoadFromFile (re)loads user configuration from a JSON file
func (s *UserStore) LoadFromFile(path string) error {
	cfg, err := ReadUsersFile(path)
	if err != nil {
		return err
	}
	return s.apply(cfg)
}

// ReadUsersFile parses a users.json file. A missing file is an error.
func ReadUsersFile(path string) (UsersConfig, error) {
	var cfg UsersConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read users file: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse users file: %w", err)
	}
	return cfg, nil
}

// WriteUsersFile saves cfg as indented JSON, readable only by the owner
func WriteUsersFile(path string, cfg UsersConfig) error {
	if cfg.Users == nil {
		cfg.Users = []User{}
	}
	if cfg.IPWhitelist == nil {
		cfg.IPWhitelist = []string{}
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write users file: %w", err)
	}
	return nil
}

// AddUser appends u, refusing names that already exist in any case
func (c *UsersConfig) AddUser(u User) error {
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("username is required")
	}
	for _, existing := range c.Users {
		if existing.ID() == u.ID() {
			return fmt.Errorf("user '%s' already exists", u.Username)
		}
	}
	c.Users = append(c.Users, u)
	return nil
}

// SetEnabled toggles a user and reports whether it was found
func (c *UsersConfig) SetEnabled(username string, enabled bool) bool {
	for i := range c.Users {
		if c.Users[i].ID() == strings.ToLower(username) {
			c.Users[i].Enabled = enabled
			return true
		}
	}
	return false
}

func (s *UserStore) apply(cfg UsersConfig) error {
	whitelist := make([]*net.IPNet, 0, len(cfg.IPWhitelist))
	for _, cidr := range cfg.IPWhitelist {
		// Single addresses get a host mask
		if !strings.Contains(cidr, "/") {
			if strings.Contains(cidr, ":") {
				cidr = cidr + "/128"
			} else {
				cidr = cidr + "/32"
			}
		}
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			return fmt.Errorf("invalid IP whitelist entry '%s': %w", cidr, err)
		}
		whitelist = append(whitelist, ipNet)
	}

	users := make(map[string]*User)
	for i := range cfg.Users {
		user := &cfg.Users[i]
		if !user.Enabled {
			continue
		}
		users[user.ID()] = user

		rpm := user.RateLimitRPM
		if rpm <= 0 {
			rpm = s.defaultRPM
		}
		if rpm > 0 {
			s.rateLimiter.SetLimit(user.ID(), rpm)
		} else {
			s.rateLimiter.RemoveLimit(user.ID())
		}
	}

	s.mu.Lock()
	s.users = users
	s.ipWhitelist = whitelist
	s.mu.Unlock()

	return nil
}

// ValidateCredentials checks if username and password are valid
func (s *UserStore) ValidateCredentials(username, password string) (*User, bool) {
	s.mu.RLock()
	user, exists := s.users[strings.ToLower(username)]
	s.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, false
	}

	return user, true
}

// CheckIPAllowed verifies if an address (optionally host:port) is whitelisted.
// An empty whitelist allows everyone.
func (s *UserStore) CheckIPAllowed(ipStr string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.ipWhitelist) == 0 {
		return true
	}

	host := ipStr
	if h, _, err := net.SplitHostPort(ipStr); err == nil {
		host = h
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}

	for _, ipNet := range s.ipWhitelist {
		if ipNet.Contains(ip) {
			return true
		}
	}

	return false
}

// CheckRateLimit reports whether the user may issue another command now
func (s *UserStore) CheckRateLimit(username string) bool {
	s.mu.RLock()
	_, exists := s.users[strings.ToLower(username)]
	s.mu.RUnlock()

	if !exists {
		return false
	}

	return s.rateLimiter.Allow(strings.ToLower(username))
}

// GetUserCount returns the number of enabled users
func (s *UserStore) GetUserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// HashPassword generates a bcrypt hash for users.json
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
