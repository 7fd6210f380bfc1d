package scene

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownScene is returned when a scene name is not registered
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo represents a built-in scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Shapes      int    `json:"shapes"`      // Number of shapes in the scene
}

type sceneEntry struct {
	description string
	build       func() *Scene
}

var builtInScenes = map[string]sceneEntry{
	"default": {
		description: "Small sphere resting on a large ground sphere",
		build:       NewDefaultScene,
	},
	"sphere": {
		description: "A single sphere against the sky",
		build:       NewSingleSphereScene,
	},
	"spheregrid": {
		description: "Grid of small spheres on a ground sphere",
		build:       NewSphereGridScene,
	},
}

// Names returns the registered scene IDs in sorted order
func Names() []string {
	names := make([]string, 0, len(builtInScenes))
	for name := range builtInScenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create builds the named scene
func Create(name string) (*Scene, error) {
	entry, ok := builtInScenes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownScene, name, strings.Join(Names(), ", "))
	}
	return entry.build(), nil
}

// List returns metadata for every registered scene, sorted by ID
func List() []SceneInfo {
	names := Names()
	infos := make([]SceneInfo, 0, len(names))
	for _, name := range names {
		entry := builtInScenes[name]
		infos = append(infos, SceneInfo{
			ID:          name,
			DisplayName: titleCase(name),
			Description: entry.description,
			Shapes:      entry.build().Len(),
		})
	}
	return infos
}

// titleCase converts kebab-case or snake_case to Title Case
func titleCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}
	return strings.Join(words, " ")
}
