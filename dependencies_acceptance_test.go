package website_test

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestModuleDependencies_StackPresent(t *testing.T) {
	for _, module := range []string{
		"github.com/gin-gonic/gin",
		"gorm.io/gorm",
		"github.com/viccon/sturdyc",
		"github.com/yuin/goldmark",
		"github.com/knadh/koanf/v2",
		"github.com/simp-lee/logger",
	} {
		t.Run(module, func(t *testing.T) {
			testModulePresence(t, module)
		})
	}
}

// Modules and handlers only see domain.ContentRepository. Concrete providers
// are chosen in internal/app and by the seed command.
func TestProviderImports_OnlyFromWiring(t *testing.T) {
	t.Run("happy_repo_respects_boundary", func(t *testing.T) {
		matches, err := findProviderImports(".")
		if err != nil {
			t.Fatalf("scan repository: %v", err)
		}
		if len(matches) != 0 {
			t.Fatalf("expected provider packages to be imported only by wiring code, found in: %v", matches)
		}
	})

	t.Run("error_fixture_with_provider_import_is_detected", func(t *testing.T) {
		fixture := `package content
import "github.com/liangwei/kuaikuaichuhai-website/internal/cms/strapi"`
		if !importsProvider(fixture) {
			t.Fatal("expected provider import to be detected in fixture")
		}
	})
}

func testModulePresence(t *testing.T, module string) {
	t.Helper()

	t.Run("happy_present_in_real_go_mod", func(t *testing.T) {
		goMod, err := os.ReadFile("go.mod")
		if err != nil {
			t.Fatalf("read go.mod: %v", err)
		}
		if !moduleRequired(string(goMod), module) {
			t.Fatalf("expected module %q to be present in go.mod", module)
		}
	})

	t.Run("error_missing_module_in_fixture", func(t *testing.T) {
		fixture := `module example.com/demo

go 1.25.0

require (
	github.com/google/uuid v1.6.0
)`
		if moduleRequired(fixture, module) {
			t.Fatalf("expected fixture to not contain module %q", module)
		}
	})
}

func moduleRequired(goModContent, module string) bool {
	re := regexp.MustCompile(`(?m)^\s*` + regexp.QuoteMeta(module) + `\s+v\S+`)
	return re.MatchString(goModContent)
}

// wiringDirs may construct providers directly.
var wiringDirs = []string{
	filepath.Join("internal", "app"),
	filepath.Join("internal", "cms"),
	filepath.Join("cmd", "seed"),
}

func findProviderImports(root string) ([]string, error) {
	matches := make([]string, 0)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if name == ".git" || name == "_examples" || name == "vendor" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		for _, dir := range wiringDirs {
			if strings.HasPrefix(path, dir+string(filepath.Separator)) {
				return nil
			}
		}
		b, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		if importsProvider(string(b)) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

func importsProvider(content string) bool {
	re := regexp.MustCompile(`"[^"]*/internal/cms/(strapi|payload|local)"`)
	return re.MatchString(content)
}
