// Command visctl is a small cobra-driven harness over the vis facade,
// matching the teacher's cli/main.go pattern of one cobra root command with
// flag-driven subcommands. It is an external collaborator per spec.md §1
// ("CLI harness... named in §6 [is] out of scope"), wired here only because
// it is the natural place to exercise package vis end to end.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ronan-fesselier/vista-sdk-sub002/dto"
	"github.com/ronan-fesselier/vista-sdk-sub002/errs"
	"github.com/ronan-fesselier/vista-sdk-sub002/gmod"
	"github.com/ronan-fesselier/vista-sdk-sub002/gmodpath"
	"github.com/ronan-fesselier/vista-sdk-sub002/location"
	"github.com/ronan-fesselier/vista-sdk-sub002/pathparser"
	"github.com/ronan-fesselier/vista-sdk-sub002/vis"
	"github.com/ronan-fesselier/vista-sdk-sub002/visversion"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var resourceDir string

	root := &cobra.Command{
		Use:           "visctl",
		Short:         "Inspect and convert DNV VIS/GMOD resources",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&resourceDir, "resources", "resources",
		"directory holding gmod-vis-<ver>.json, locations-vis-<ver>.json, gmod-vis-versioning-<ver>.json")

	root.AddCommand(newNodeCmd(&resourceDir))
	root.AddCommand(newPathCmd(&resourceDir))
	root.AddCommand(newConvertCmd(&resourceDir))
	return root
}

// fileResourceProvider reads named resources as files under dir, the
// simplest dto.ResourceProvider a CLI caller can supply - spec.md §1 keeps
// embedded-resource loading itself out of core scope.
func fileResourceProvider(dir string) dto.ResourceProvider {
	return func(name string) ([]byte, error) {
		return os.ReadFile(filepath.Join(dir, name))
	}
}

func openFacade(resourceDir string) *vis.VIS {
	return vis.New(fileResourceProvider(resourceDir), nil)
}

func parseVersionArg(s string) (visversion.VisVersion, error) {
	v, err := visversion.Parse(s)
	if err != nil {
		return visversion.Unknown, fmt.Errorf("invalid VIS version %q: %w", s, err)
	}
	return v, nil
}

func newNodeCmd(resourceDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "node <version> <code>",
		Short: "Look up a GMOD node by code and print its metadata",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseVersionArg(args[0])
			if err != nil {
				return err
			}
			code := args[1]

			facade := openFacade(*resourceDir)
			g, err := facade.Gmod(v)
			if err != nil {
				return err
			}
			node, ok := g.TryGetNode(code)
			if !ok {
				suggestions := g.SuggestCode(code, 5)
				if len(suggestions) > 0 {
					return fmt.Errorf("code %q not found in VIS %s, did you mean: %v", code, v, suggestions)
				}
				return fmt.Errorf("code %q not found in VIS %s", code, v)
			}

			md := node.Metadata()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "code:       %s\n", node.Code())
			fmt.Fprintf(out, "fullType:   %s\n", md.FullType)
			fmt.Fprintf(out, "name:       %s\n", md.Name)
			if md.CommonName != nil {
				fmt.Fprintf(out, "commonName: %s\n", *md.CommonName)
			}
			fmt.Fprintf(out, "isLeaf:     %t\n", node.IsLeafNode())
			fmt.Fprintf(out, "children:   %d\n", len(node.Children()))
			fmt.Fprintf(out, "parents:    %d\n", len(node.Parents()))
			return nil
		},
	}
}

func newPathCmd(resourceDir *string) *cobra.Command {
	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Parse GMOD path strings",
	}
	pathCmd.AddCommand(newPathParseCmd(resourceDir))
	return pathCmd
}

func newPathParseCmd(resourceDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <version> <path>",
		Short: "Parse a short or full GMOD path string",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseVersionArg(args[0])
			if err != nil {
				return err
			}
			item := args[1]

			facade := openFacade(*resourceDir)
			g, err := facade.Gmod(v)
			if err != nil {
				return err
			}
			locs, err := facade.Locations(v)
			if err != nil {
				return err
			}

			path, err := parseEitherForm(g, locs, item)
			if err != nil {
				return err
			}
			printPath(cmd, path)
			return nil
		},
	}
}

// parseEitherForm tries the full-path parser when item is seeded at the
// root code and falls back to the short-path parser otherwise, matching
// spec.md §4.F's two-mode grammar ("seeded by the root code" vs "a terse
// seed near the target").
func parseEitherForm(g *gmod.Gmod, locs *location.Locations, item string) (*gmodpath.Path, error) {
	root := g.RootNode()
	trimmed := item
	for len(trimmed) > 0 && trimmed[0] == '/' {
		trimmed = trimmed[1:]
	}
	if len(trimmed) >= len(root.Code()) && trimmed[:len(root.Code())] == root.Code() {
		return pathparser.ParseFullPath(g, locs, item)
	}
	return pathparser.ParsePath(g, locs, item)
}

func printPath(cmd *cobra.Command, path *gmodpath.Path) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "short:  %s\n", path.String())
	fmt.Fprintf(out, "full:   %s\n", path.ToFullPathString())
	fmt.Fprintf(out, "length: %d\n", path.Length())
}

func newConvertCmd(resourceDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <fromVersion> <toVersion> <path>",
		Short: "Convert a GMOD path from one VIS version to another",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseVersionArg(args[0])
			if err != nil {
				return err
			}
			to, err := parseVersionArg(args[1])
			if err != nil {
				return err
			}
			item := args[2]

			facade := openFacade(*resourceDir)
			g, err := facade.Gmod(from)
			if err != nil {
				return err
			}
			locs, err := facade.Locations(from)
			if err != nil {
				return err
			}

			srcPath, err := parseEitherForm(g, locs, item)
			if err != nil {
				return err
			}

			converted, err := facade.ConvertPath(from, srcPath, to)
			if err != nil {
				if errs.Is(err, errs.ConversionFailed) {
					return fmt.Errorf("path %q has no valid counterpart in VIS %s", item, to)
				}
				return err
			}
			if converted == nil {
				return fmt.Errorf("path %q has no counterpart in VIS %s", item, to)
			}
			printPath(cmd, converted)
			return nil
		},
	}
}
