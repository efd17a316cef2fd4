package user

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"kdrama_recommend/internal/model"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Provider 定义了用户数据获取的接口
type Provider interface {
	GetUser(userID string) (*model.User, error)
	GetUserByToken(token string) (*model.User, error)
}

// Registry 支持注册和登录的 Provider
type Registry interface {
	Provider
	Register(req Registration) (*model.User, error)
	Login(username, password string) (*model.User, error)
}

// Registration 注册请求
type Registration struct {
	Username    string   `json:"username" binding:"required"`
	Password    string   `json:"password" binding:"required"`
	Age         int      `json:"age"`
	Gender      string   `json:"gender"`
	Preferences []string `json:"preferences"`
}

// FileProvider 基于 YAML 文件的用户提供者
// 注册的新用户会写回同一个文件
type FileProvider struct {
	configPath string
	users      map[string]*model.User
	tokenIndex map[string]*model.User
	order      []string // 保持文件中的用户顺序
	mu         sync.RWMutex
}

type fileConfig struct {
	Users []model.User `yaml:"users"`
}

// NewFileProvider 创建一个新的 FileProvider 实例
// configPath 是用户配置文件的路径 (yaml格式)，文件不存在时从空列表开始
func NewFileProvider(configPath string) (*FileProvider, error) {
	p := &FileProvider{
		configPath: configPath,
		users:      make(map[string]*model.User),
		tokenIndex: make(map[string]*model.User),
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return p, nil
		}
		return nil, fmt.Errorf("failed to read user config file: %w", err)
	}

	var config fileConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse user config: %w", err)
	}

	for i := range config.Users {
		p.index(&config.Users[i])
	}
	return p, nil
}

func (p *FileProvider) index(u *model.User) {
	p.users[u.ID] = u
	p.order = append(p.order, u.ID)
	if u.Token != "" {
		p.tokenIndex[u.Token] = u
	}
}

// GetUser 根据 UserID 获取用户信息
func (p *FileProvider) GetUser(userID string) (*model.User, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	u, ok := p.users[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	return u, nil
}

// GetUserByToken 根据 Token 获取用户信息
func (p *FileProvider) GetUserByToken(token string) (*model.User, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	u, ok := p.tokenIndex[token]
	if !ok {
		return nil, ErrInvalidToken
	}
	return u, nil
}

// Register 注册新用户，用户名重复时返回 ErrUserExists
func (p *FileProvider) Register(req Registration) (*model.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.users[username]; exists {
		return nil, fmt.Errorf("%w: %s", ErrUserExists, username)
	}

	u := &model.User{
		ID:           username,
		Name:         username,
		Token:        uuid.NewString(),
		PasswordHash: string(hash),
		Age:          req.Age,
		Gender:       req.Gender,
		Preferences:  req.Preferences,
	}
	p.index(u)

	if err := p.save(); err != nil {
		// 回滚内存状态
		delete(p.users, u.ID)
		delete(p.tokenIndex, u.Token)
		p.order = p.order[:len(p.order)-1]
		return nil, err
	}
	return u, nil
}

// Login 校验密码并返回用户 (含 Token)
func (p *FileProvider) Login(username, password string) (*model.User, error) {
	p.mu.RLock()
	u, ok := p.users[strings.TrimSpace(username)]
	p.mu.RUnlock()

	if !ok || u.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// save 将所有用户写回文件，调用方需持有写锁
func (p *FileProvider) save() error {
	cfg := fileConfig{Users: make([]model.User, 0, len(p.order))}
	for _, id := range p.order {
		cfg.Users = append(cfg.Users, *p.users[id])
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}

	tmp := p.configPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}
	if err := os.Rename(tmp, p.configPath); err != nil {
		return fmt.Errorf("failed to replace user config: %w", err)
	}
	return nil
}
