package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// 回放速度和帧率范围
const (
	MinTimeScale = 0.1
	MaxTimeScale = 4.0
	MinTPS       = 10
	MaxTPS       = 240
)

// PlaybackSettings 查看器/模拟器的回放设置
// 与场景文件无关，跨场景共享
type PlaybackSettings struct {
	TPS       int     `yaml:"tps"`       // 每秒 tick 数
	TimeScale float64 `yaml:"timeScale"` // 时间倍率，1.0 = 实时
	Verbose   bool    `yaml:"verbose"`   // 是否输出调试日志
	LastScene string  `yaml:"lastScene"` // 上次打开的场景路径（可选）
}

// DefaultPlaybackSettings 返回默认设置
func DefaultPlaybackSettings() *PlaybackSettings {
	return &PlaybackSettings{
		TPS:       60,
		TimeScale: 1.0,
		Verbose:   false,
	}
}

// SettingsManager 设置管理器
// 负责回放设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager     // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *PlaybackSettings // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "playback"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 加载失败不是致命错误，使用默认设置并记录警告。
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultPlaybackSettings(),
	}

	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm
}

// OpenSettingsManager 打开 appName 对应的 gdata 存储并创建设置管理器
// gdata 不可用时退化为内存模式，返回的管理器总是可用
func OpenSettingsManager(appName string) *SettingsManager {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[SettingsManager] Warning: gdata unavailable: %v (settings will not persist)", err)
		return NewSettingsManager(nil)
	}
	return NewSettingsManager(manager)
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或数据不存在，使用默认设置
func (sm *SettingsManager) Load() error {
	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil {
		sm.settings = DefaultPlaybackSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultPlaybackSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultPlaybackSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 先填默认值，旧版本存档缺少的字段保持默认
	loaded := DefaultPlaybackSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultPlaybackSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.TPS = clampTPS(loaded.TPS)
	loaded.TimeScale = clampTimeScale(loaded.TimeScale)

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *PlaybackSettings {
	return sm.settings
}

// Persistent 设置是否会被持久化
func (sm *SettingsManager) Persistent() bool {
	return sm.gdataManager != nil
}

// SetTPS 设置每秒 tick 数，限制在 [MinTPS, MaxTPS]
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetTPS(tps int) {
	sm.settings.TPS = clampTPS(tps)
}

// SetTimeScale 设置时间倍率，限制在 [MinTimeScale, MaxTimeScale]
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetTimeScale(scale float64) {
	sm.settings.TimeScale = clampTimeScale(scale)
}

// SetVerbose 设置调试日志开关
func (sm *SettingsManager) SetVerbose(enabled bool) {
	sm.settings.Verbose = enabled
}

// SetLastScene 记录上次打开的场景
func (sm *SettingsManager) SetLastScene(path string) {
	sm.settings.LastScene = path
}

func clampTPS(tps int) int {
	if tps < MinTPS {
		return MinTPS
	}
	if tps > MaxTPS {
		return MaxTPS
	}
	return tps
}

func clampTimeScale(scale float64) float64 {
	if scale < MinTimeScale {
		return MinTimeScale
	}
	if scale > MaxTimeScale {
		return MaxTimeScale
	}
	return scale
}
