// Validate command loads a scene and reports descriptors that cannot resolve.
package main

import (
	"fmt"
	"io"

	"github.com/decker502/proptween/pkg/config"
	"github.com/decker502/proptween/pkg/scenes"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <scene.yaml>",
	Short: "Check a scene file",
	Long: `Validate parses the scene, builds every entity and controller, and
reports each state whose component or property cannot be resolved.

Example:
  tweenctl validate data/scenes/hover_button.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd.OutOrStdout(), args[0])
	},
}

// errInvalidScene is returned when a scene builds but has unresolvable states.
type errInvalidScene struct {
	count int
}

func (e errInvalidScene) Error() string {
	return fmt.Sprintf("%d state(s) cannot be resolved", e.count)
}

func runValidate(w io.Writer, path string) error {
	scene, err := scenes.LoadTweenScene(path, config.NewActionRegistry(), scenes.WithPointerInput(offscreenPointer()))
	if err != nil {
		return err
	}

	issues := scene.Issues()
	for _, issue := range issues {
		fmt.Fprintf(w, "%s: state #%d %q: %v\n", issue.EntityID, issue.Index, issue.Name, issue.Err)
	}
	if len(issues) > 0 {
		return errInvalidScene{count: len(issues)}
	}

	fmt.Fprintf(w, "%s: ok (%d entities)\n", path, len(scene.IDs()))
	return nil
}
