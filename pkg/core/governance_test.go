//go:build governance

package core_test

import (
	"go/types"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const modulePath = "github.com/leapstack-labs/atlas"

// =============================================================================
// COHESION TEST - Core types must be shared by multiple packages
// =============================================================================

// TestGovernance_CoreCohesion verifies that types in pkg/core are shared by
// more than one package. Single-use types belong to their only consumer.
func TestGovernance_CoreCohesion(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports | packages.NeedTypes |
			packages.NeedTypesInfo | packages.NeedDeps,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	coreTypes := make(map[types.Object]string)
	var corePkg *packages.Package
	for _, p := range pkgs {
		if p.PkgPath != modulePath+"/pkg/core" {
			continue
		}
		corePkg = p
		scope := p.Types.Scope()
		for _, name := range scope.Names() {
			if tn, ok := scope.Lookup(name).(*types.TypeName); ok && tn.Exported() {
				coreTypes[tn] = name
			}
		}
		break
	}
	if corePkg == nil {
		t.Fatal("Could not find pkg/core")
	}

	usage := make(map[string]map[string]bool)
	for _, name := range coreTypes {
		usage[name] = make(map[string]bool)
	}
	for _, p := range pkgs {
		if p.PkgPath == corePkg.PkgPath || p.TypesInfo == nil {
			continue
		}
		for _, obj := range p.TypesInfo.Uses {
			if name, ok := coreTypes[obj]; ok {
				usage[name][strings.TrimPrefix(p.PkgPath, modulePath+"/")] = true
			}
		}
	}

	for name, importers := range usage {
		switch len(importers) {
		case 0:
			t.Logf("WARNING: Unused Core Type: %s (consider deleting)", name)
		case 1:
			for user := range importers {
				t.Errorf("COHESION VIOLATION: 'core.%s' is used ONLY by '%s'.\n"+
					"   Fix: Move type from pkg/core to %s.", name, user, user)
			}
		}
	}
}

// =============================================================================
// LAYERING TEST - Domain packages stay below the delivery layers
// =============================================================================

// TestGovernance_Layering ensures pkg/... never imports internal packages and
// that builders never import the HTTP server or the CLI.
func TestGovernance_Layering(t *testing.T) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports}
	pkgs, err := packages.Load(cfg, modulePath+"/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	forbidden := map[string][]string{
		modulePath + "/pkg/":                {modulePath + "/internal/"},
		modulePath + "/internal/esa":        {modulePath + "/internal/server", modulePath + "/internal/cli"},
		modulePath + "/internal/seo":        {modulePath + "/internal/server", modulePath + "/internal/cli"},
		modulePath + "/internal/coverage":   {modulePath + "/internal/server", modulePath + "/internal/cli"},
		modulePath + "/internal/snapshot":   {modulePath + "/internal/server", modulePath + "/internal/cli"},
		modulePath + "/internal/state":      {modulePath + "/internal/server", modulePath + "/internal/cli"},
		modulePath + "/internal/server":     {modulePath + "/internal/cli"},
		modulePath + "/internal/cache":      {modulePath + "/internal/snapshot"},
		modulePath + "/internal/github":     {modulePath + "/internal/esa"},
		modulePath + "/internal/crawl":      {modulePath + "/internal/coverage"},
		modulePath + "/internal/metrics":    {modulePath + "/internal/snapshot", modulePath + "/internal/server"},
		modulePath + "/internal/cli/output": {modulePath + "/internal/cli/commands"},
	}

	for _, p := range pkgs {
		for prefix, banned := range forbidden {
			if !strings.HasPrefix(p.PkgPath, prefix) {
				continue
			}
			for imp := range p.Imports {
				for _, b := range banned {
					if strings.HasPrefix(imp, b) {
						t.Errorf("LAYERING VIOLATION: '%s' imports '%s'",
							strings.TrimPrefix(p.PkgPath, modulePath+"/"),
							strings.TrimPrefix(imp, modulePath+"/"))
					}
				}
			}
		}
	}
}
