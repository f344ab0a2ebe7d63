package main

import (
	"fmt"
	"io"
	"math"
	"os"

	"duchm1606/bptree/pkg/btree"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type config struct {
	insert   []uint
	delete   []uint
	search   []uint
	value    uint
	logLevel string
	verify   bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := &config{}
	cmd := &cobra.Command{
		Use:   "bptree",
		Short: "exercise an in-memory B+tree",
		Long: `Inserts the given keys into an empty tree, prints it, deletes the given
keys, prints it again and reports where the searched keys live.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	addFlags(cmd.Flags(), cfg)
	return cmd
}

func addFlags(fs *pflag.FlagSet, cfg *config) {
	fs.UintSliceVar(&cfg.insert, "insert", []uint{1, 2, 3, 4, 5, 6, 7, 8, 9}, "keys to insert")
	fs.UintSliceVar(&cfg.delete, "delete", []uint{1, 2}, "keys to delete after inserting")
	fs.UintSliceVar(&cfg.search, "search", nil, "keys to look up at the end")
	fs.UintVar(&cfg.value, "value", 100, "value stored with every inserted key")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "logrus level for tree events")
	fs.BoolVar(&cfg.verify, "verify", true, "check the tree's invariants after every step")
}

func run(cfg *config, out io.Writer, logOut io.Writer) error {
	level, err := logrus.ParseLevel(cfg.logLevel)
	if err != nil {
		return err
	}
	log := logrus.New()
	log.SetOutput(logOut)
	log.SetLevel(level)

	value, err := toKey(cfg.value)
	if err != nil {
		return errors.Wrap(err, "value")
	}
	tree := btree.New(btree.WithLogger(log))

	for _, k := range cfg.insert {
		key, err := toKey(k)
		if err != nil {
			return errors.Wrap(err, "insert")
		}
		if err := tree.Insert(key, value); err != nil {
			return errors.Wrapf(err, "insert %d", key)
		}
		if err := check(cfg, tree); err != nil {
			return errors.Wrapf(err, "after inserting %d", key)
		}
	}
	fmt.Fprintf(out, "after inserting %d keys:\n", len(cfg.insert))
	if err := tree.Dump(out); err != nil {
		return err
	}

	if len(cfg.delete) > 0 {
		for _, k := range cfg.delete {
			key, err := toKey(k)
			if err != nil {
				return errors.Wrap(err, "delete")
			}
			if !tree.Delete(key) {
				fmt.Fprintf(out, "key %d not found\n", key)
			}
			if err := check(cfg, tree); err != nil {
				return errors.Wrapf(err, "after deleting %d", key)
			}
		}
		fmt.Fprintf(out, "after deleting %d keys:\n", len(cfg.delete))
		if err := tree.Dump(out); err != nil {
			return err
		}
	}

	for _, k := range cfg.search {
		key, err := toKey(k)
		if err != nil {
			return errors.Wrap(err, "search")
		}
		leaf, parent := tree.Search(key)
		if v, ok := tree.Get(key); ok {
			fmt.Fprintf(out, "key %d: value %d in leaf %d (parent %d)\n", key, v, leaf, parent)
		} else {
			fmt.Fprintf(out, "key %d: absent, would live in leaf %d (parent %d)\n", key, leaf, parent)
		}
	}
	return nil
}

func check(cfg *config, tree *btree.Tree) error {
	if !cfg.verify {
		return nil
	}
	return tree.Verify()
}

func toKey(v uint) (uint16, error) {
	if v > math.MaxUint16 {
		return 0, errors.Newf("%d does not fit in 16 bits", v)
	}
	return uint16(v), nil
}
