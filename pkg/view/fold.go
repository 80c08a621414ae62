package view

import (
	"strings"

	"github.com/arthur-debert/stowng/pkg/filesystem"
	"github.com/arthur-debert/stowng/pkg/paths"
)

// Foldable returns the directory that target can be replaced by a single
// link to, or "" when it must stay a real directory. That is the case when
// every remaining entry of target is a link into the same package
// directory. An empty directory is not foldable.
func (v *View) Foldable(target string) (string, error) {
	v.logger.Trace().Msgf("Is %s foldable?", target)
	if v.opts.NoFolding {
		v.logger.Trace().Msg("no because --no-folding enabled")
		return "", nil
	}

	children, err := filesystem.ListChildren(v.fs, target)
	if err != nil {
		return "", err
	}

	parent := ""
	for _, node := range children {
		path := paths.JoinPaths(target, node)

		// dangling links still count, entries being removed do not
		if !v.IsANode(path) && !v.IsALink(path) {
			continue
		}
		if !v.IsALink(path) {
			v.logger.Trace().Msgf("%s is not a link, cannot fold %s", path, target)
			return "", nil
		}

		source, err := v.ledger.ReadALink(path)
		if err != nil {
			return "", err
		}
		if parent == "" {
			parent = paths.Parent(source)
		} else if parent != paths.Parent(source) {
			v.logger.Trace().Msgf("%s links into a different directory than %s", path, parent)
			return "", nil
		}
	}

	if parent == "" {
		return "", nil
	}

	// the links live one level deeper than the folded link will
	parent = strings.TrimPrefix(parent, "../")

	if v.PathOwnedByPackage(target, parent) {
		v.logger.Trace().Msgf("%s is foldable into %s", target, parent)
		return parent, nil
	}
	return "", nil
}

// FoldTree replaces the directory target with a link to source
func (v *View) FoldTree(target, source string) error {
	v.logger.Debug().Msgf("--- Folding tree: %s => %s", target, source)

	children, err := filesystem.ListChildren(v.fs, target)
	if err != nil {
		return err
	}

	for _, node := range children {
		path := paths.JoinPaths(target, node)
		if !v.IsANode(path) && !v.IsALink(path) {
			continue
		}
		if err := v.ledger.DoUnlink(path); err != nil {
			return err
		}
	}

	v.ledger.DoRmdir(target)
	v.ledger.DoLink(source, target)
	return nil
}
