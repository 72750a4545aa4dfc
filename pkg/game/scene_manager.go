package game

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 场景工厂函数类型
// 根据场景文件路径创建场景，避免 game 包依赖具体场景实现
type SceneFactory func(path string) (Scene, error)

// SceneManager manages which scene is active.
// It ensures only one scene's Update and Draw methods are called at any given time.
type SceneManager struct {
	currentScene Scene
	currentPath  string
	sceneFactory SceneFactory
}

// NewSceneManager creates and returns a new SceneManager instance.
// The manager starts with no active scene; use SwitchTo or LoadScene to set one.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo changes the active scene to the provided scene.
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// CurrentPath 当前场景的文件路径（通过 LoadScene 加载时）
func (sm *SceneManager) CurrentPath() string {
	return sm.currentPath
}

// LoadScene 通过工厂函数加载场景文件并切换过去
// 加载失败时保留当前场景
func (sm *SceneManager) LoadScene(path string) error {
	log.Printf("[SceneManager] 加载场景: %s", path)

	if sm.sceneFactory == nil {
		return fmt.Errorf("scene factory not set")
	}

	scene, err := sm.sceneFactory(path)
	if err != nil {
		return fmt.Errorf("failed to load scene %s: %w", path, err)
	}
	if scene == nil {
		return fmt.Errorf("scene factory returned nil for %s", path)
	}

	sm.SwitchTo(scene)
	sm.currentPath = path
	log.Printf("[SceneManager] 成功切换到场景: %s", path)
	return nil
}

// Reload 重新加载当前场景文件，场景回到初始状态
func (sm *SceneManager) Reload() error {
	if sm.currentPath == "" {
		return fmt.Errorf("no scene loaded from file")
	}
	return sm.LoadScene(sm.currentPath)
}

// Update updates the currently active scene.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene to the provided screen.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
