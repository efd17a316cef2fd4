package model

// User 代表系统中的用户信息
// 收藏列表和评分不在这里保存，由 profile.Store 负责
type User struct {
	ID           string   `json:"id" yaml:"id"`
	Token        string   `json:"-" yaml:"token"` // Token 用于鉴权，不序列化到 JSON
	Name         string   `json:"name" yaml:"name"`
	PasswordHash string   `json:"-" yaml:"password_hash"`
	Age          int      `json:"age,omitempty" yaml:"age,omitempty"`
	Gender       string   `json:"gender,omitempty" yaml:"gender,omitempty"`
	Preferences  []string `json:"preferences,omitempty" yaml:"preferences,omitempty"` // 偏好的类型
}
