// Package app 提供场景查看器的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，根目录的查看器和 tweenctl view 共用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/decker502/proptween/pkg/config"
	"github.com/decker502/proptween/pkg/game"
	"github.com/decker502/proptween/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// 查看器逻辑屏幕尺寸
const (
	ScreenWidth  = 800
	ScreenHeight = 600
)

// timeScaleStep 上下方向键每次调整的时间倍率
const timeScaleStep = 0.25

// Config 定义应用启动配置
type Config struct {
	// ScenePath 场景文件路径（data/ 开头时优先从嵌入资源读取）
	ScenePath string
	// Verbose 启用详细日志输出
	Verbose bool
	// TPS 覆盖并保存帧率，0 表示依次使用场景、默认值、保存的设置
	TPS int
	// TimeScale 覆盖并保存时间倍率，0 同上
	TimeScale float64
	// DefaultTPS / DefaultTimeScale 场景未指定回放参数时使用，优先于保存的设置；0 表示不使用
	DefaultTPS       int
	DefaultTimeScale float64
	// Settings 回放设置，为 nil 时使用内存中的默认设置
	Settings *game.SettingsManager
}

// App 是查看器的核心包装器，实现 ebiten.Game 接口
//
// 快捷键：R 重新加载场景，Space 暂停，Up/Down 调整时间倍率，F11 切换全屏
type App struct {
	sceneManager *game.SceneManager
	settings     *game.SettingsManager
	actions      *config.ActionRegistry
	verbose      bool
	paused       bool

	// 当前生效的回放参数：覆盖参数 > 场景 playback > 默认值 > 保存的设置
	tps       int
	timeScale float64

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化查看器
//
// 未调用 embedded.Init() 时场景只从磁盘读取。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	settings := cfg.Settings
	if settings == nil {
		settings = game.NewSettingsManager(nil)
	}
	if cfg.TPS > 0 {
		settings.SetTPS(cfg.TPS)
	}
	if cfg.TimeScale > 0 {
		settings.SetTimeScale(cfg.TimeScale)
	}
	settings.SetVerbose(cfg.Verbose)

	scenePath := cfg.ScenePath
	if scenePath == "" {
		scenePath = settings.GetSettings().LastScene
	}
	if scenePath == "" {
		return nil, fmt.Errorf("no scene specified")
	}

	a := &App{
		sceneManager: game.NewSceneManager(),
		settings:     settings,
		actions:      config.NewActionRegistry(),
		verbose:      cfg.Verbose,
	}
	a.sceneManager.SetSceneFactory(func(path string) (game.Scene, error) {
		scene, err := scenes.LoadTweenScene(path, a.actions)
		if err != nil {
			return nil, err
		}
		return scene, nil
	})

	if err := a.sceneManager.LoadScene(scenePath); err != nil {
		return nil, fmt.Errorf("场景加载失败: %w", err)
	}

	settings.SetLastScene(scenePath)
	if err := settings.Save(); err != nil {
		log.Printf("[App] Warning: failed to save settings: %v", err)
	}

	a.tps, a.timeScale = resolvePlayback(cfg, a.scenePlayback(), *settings.GetSettings())
	ebiten.SetTPS(a.tps)
	log.Printf("[App] 场景 %s 已加载, TPS=%d, TimeScale=%.2f", scenePath, a.tps, a.timeScale)
	return a, nil
}

// scenePlayback 当前场景建议的回放参数
func (a *App) scenePlayback() config.PlaybackConfig {
	if scene, ok := a.sceneManager.GetCurrentScene().(*scenes.TweenScene); ok {
		return scene.Playback()
	}
	return config.PlaybackConfig{}
}

// resolvePlayback 按 覆盖参数 > 场景 > 默认值 > 保存的设置 取第一个正值
// 场景与默认值只影响本次运行，不写入设置
func resolvePlayback(cfg Config, scene config.PlaybackConfig, saved game.PlaybackSettings) (int, float64) {
	tps := saved.TPS
	for _, v := range []int{cfg.TPS, scene.TPS, cfg.DefaultTPS} {
		if v > 0 {
			tps = v
			break
		}
	}
	timeScale := saved.TimeScale
	for _, v := range []float64{cfg.TimeScale, scene.TimeScale, cfg.DefaultTimeScale} {
		if v > 0 {
			timeScale = v
			break
		}
	}
	return tps, timeScale
}

// Update 更新场景逻辑
// 每个 tick 调用一次
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
			a.pendingWindowSizeReset = false
		}
	}

	a.handleKeys()

	if a.paused {
		return nil
	}
	a.sceneManager.Update(DeltaTime(a.timeScale, ebiten.TPS()))
	return nil
}

func (a *App) handleKeys() {
	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := a.sceneManager.Reload(); err != nil {
			log.Printf("[App] 重新加载失败: %v", err)
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		a.paused = !a.paused
		log.Printf("[App] paused=%v", a.paused)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		a.adjustTimeScale(timeScaleStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		a.adjustTimeScale(-timeScaleStep)
	}
}

// adjustTimeScale 调整并保存时间倍率
func (a *App) adjustTimeScale(delta float64) {
	a.settings.SetTimeScale(a.timeScale + delta)
	a.timeScale = a.settings.GetSettings().TimeScale
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: failed to save settings: %v", err)
	}
	log.Printf("[App] TimeScale=%.2f", a.timeScale)
}

// Playback 当前生效的 TPS 与时间倍率
func (a *App) Playback() (int, float64) {
	return a.tps, a.timeScale
}

// DeltaTime 每个 tick 推进的场景时间（秒）
func DeltaTime(timeScale float64, tps int) float64 {
	if tps <= 0 {
		tps = 60
	}
	return timeScale / float64(tps)
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}

// Settings 回放设置
func (a *App) Settings() *game.SettingsManager {
	return a.settings
}
