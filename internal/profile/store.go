package profile

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// 评分范围
const (
	MinRating = 1
	MaxRating = 5
)

var (
	// ErrInvalidRating 评分超出 1-5 范围
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrEmptyItem 条目名称为空
	ErrEmptyItem = errors.New("item name is required")
)

// 记录类型
const (
	KindWatchAdd    = "watch_add"
	KindWatchRemove = "watch_remove"
	KindRating      = "rating"
)

// Record 代表一条用户状态变更记录 (追加写入 JSONL)
type Record struct {
	UserID    string `json:"user_id"`
	Kind      string `json:"kind"`
	ItemName  string `json:"item_name"`
	Rating    int    `json:"rating,omitempty"`
	Feedback  string `json:"feedback,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// RatingEntry 一次评分及文字反馈
type RatingEntry struct {
	Rating    int       `json:"rating"`
	Feedback  string    `json:"feedback,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store 定义用户收藏与评分存储接口
type Store interface {
	// AddToWatchlist 加入收藏，已存在时返回 false
	AddToWatchlist(userID, itemName string) (bool, error)
	// RemoveFromWatchlist 移出收藏，不存在时返回 false
	RemoveFromWatchlist(userID, itemName string) (bool, error)
	// Watchlist 按加入顺序返回收藏列表
	Watchlist(userID string) ([]string, error)
	// AddRating 保存一次评分和反馈
	AddRating(userID, itemName string, rating int, feedback string) error
	// Ratings 返回用户的全部评分: item name -> entries
	Ratings(userID string) (map[string][]RatingEntry, error)
	// AverageRating 返回用户的平均评分，没有评分时 ok 为 false
	AverageRating(userID string) (avg float64, ok bool, err error)
}

// FileStore 基于 JSONL 文件的实现
// 文件只追加，启动时重放全部记录构建内存状态
type FileStore struct {
	filePath   string
	mu         sync.RWMutex
	watchlists map[string][]string
	ratings    map[string]map[string][]RatingEntry
	now        func() time.Time
}

// NewFileStore 创建一个新的 FileStore
// 如果文件不存在，会自动创建
func NewFileStore(filePath string) (*FileStore, error) {
	fs := &FileStore{
		filePath:   filePath,
		watchlists: make(map[string][]string),
		ratings:    make(map[string]map[string][]RatingEntry),
		now:        time.Now,
	}

	if err := fs.load(); err != nil {
		return nil, err
	}

	return fs, nil
}

// load 从文件重放所有记录
func (s *FileStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.filePath, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("failed to open profile file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var record Record
		if err := json.Unmarshal(line, &record); err != nil {
			// 忽略损坏的行
			continue
		}
		s.apply(record)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to scan profile file: %w", err)
	}

	return nil
}

// apply 将记录应用到内存状态，调用方需持有写锁
func (s *FileStore) apply(r Record) bool {
	switch r.Kind {
	case KindWatchAdd:
		for _, name := range s.watchlists[r.UserID] {
			if name == r.ItemName {
				return false
			}
		}
		s.watchlists[r.UserID] = append(s.watchlists[r.UserID], r.ItemName)
		return true
	case KindWatchRemove:
		list := s.watchlists[r.UserID]
		for i, name := range list {
			if name == r.ItemName {
				s.watchlists[r.UserID] = append(list[:i:i], list[i+1:]...)
				return true
			}
		}
		return false
	case KindRating:
		byItem, ok := s.ratings[r.UserID]
		if !ok {
			byItem = make(map[string][]RatingEntry)
			s.ratings[r.UserID] = byItem
		}
		byItem[r.ItemName] = append(byItem[r.ItemName], RatingEntry{
			Rating:    r.Rating,
			Feedback:  r.Feedback,
			CreatedAt: time.Unix(r.Timestamp, 0),
		})
		return true
	}
	return false
}

// append 写入文件，调用方需持有写锁
func (s *FileStore) append(r Record) error {
	f, err := os.OpenFile(s.filePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("failed to open profile file for appending: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(r); err != nil {
		return fmt.Errorf("failed to write profile record: %w", err)
	}
	return nil
}

func (s *FileStore) contains(userID, itemName string) bool {
	for _, name := range s.watchlists[userID] {
		if name == itemName {
			return true
		}
	}
	return false
}

// AddToWatchlist 加入收藏
func (s *FileStore) AddToWatchlist(userID, itemName string) (bool, error) {
	itemName = strings.TrimSpace(itemName)
	if itemName == "" {
		return false, ErrEmptyItem
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.contains(userID, itemName) {
		return false, nil
	}
	r := Record{UserID: userID, Kind: KindWatchAdd, ItemName: itemName, Timestamp: s.now().Unix()}
	if err := s.append(r); err != nil {
		return false, err
	}
	return s.apply(r), nil
}

// RemoveFromWatchlist 移出收藏
func (s *FileStore) RemoveFromWatchlist(userID, itemName string) (bool, error) {
	itemName = strings.TrimSpace(itemName)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.contains(userID, itemName) {
		return false, nil
	}
	r := Record{UserID: userID, Kind: KindWatchRemove, ItemName: itemName, Timestamp: s.now().Unix()}
	if err := s.append(r); err != nil {
		return false, err
	}
	return s.apply(r), nil
}

// Watchlist 返回收藏列表的副本
func (s *FileStore) Watchlist(userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.watchlists[userID]
	result := make([]string, len(list))
	copy(result, list)
	return result, nil
}

// AddRating 保存评分
func (s *FileStore) AddRating(userID, itemName string, rating int, feedback string) error {
	itemName = strings.TrimSpace(itemName)
	if itemName == "" {
		return ErrEmptyItem
	}
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("%w: got %d", ErrInvalidRating, rating)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := Record{
		UserID:    userID,
		Kind:      KindRating,
		ItemName:  itemName,
		Rating:    rating,
		Feedback:  strings.TrimSpace(feedback),
		Timestamp: s.now().Unix(),
	}
	if err := s.append(r); err != nil {
		return err
	}
	s.apply(r)
	return nil
}

// Ratings 返回用户评分的副本
func (s *FileStore) Ratings(userID string) (map[string][]RatingEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string][]RatingEntry, len(s.ratings[userID]))
	for name, entries := range s.ratings[userID] {
		cp := make([]RatingEntry, len(entries))
		copy(cp, entries)
		result[name] = cp
	}
	return result, nil
}

// AverageRating 计算所有评分的平均值
func (s *FileStore) AverageRating(userID string) (float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum, count int
	for _, entries := range s.ratings[userID] {
		for _, e := range entries {
			sum += e.Rating
			count++
		}
	}
	if count == 0 {
		return 0, false, nil
	}
	return float64(sum) / float64(count), true, nil
}
