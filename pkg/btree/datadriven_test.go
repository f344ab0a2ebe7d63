package btree

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

// TestTreeDataDriven runs the scripts under testdata. Commands:
//
//	new                 start over with an empty tree
//	insert [value=N]    insert the keys of the input; the value defaults to the key
//	delete              delete the keys of the input
//	search              print leaf, parent and value for the keys of the input
//	dump                print the tree
//
// Every mutating command verifies the tree and prints the dump.
func TestTreeDataDriven(t *testing.T) {
	datadriven.Walk(t, "testdata", func(t *testing.T, path string) {
		env := newTreeEnv()
		datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
			return env.exec(t, d)
		})
	})
}

type treeEnv struct {
	log  logrus.FieldLogger
	tree *Tree
}

func newTreeEnv() *treeEnv {
	log, _ := test.NewNullLogger()
	return &treeEnv{log: log, tree: New(WithLogger(log))}
}

func (e *treeEnv) exec(t testing.TB, d *datadriven.TestData) string {
	switch d.Cmd {
	case "new":
		e.tree = New(WithLogger(e.log))
		return e.tree.String()

	case "insert":
		value := -1
		if d.HasArg("value") {
			d.ScanArgs(t, "value", &value)
		}
		for _, k := range parseKeys(t, d.Input) {
			v := k
			if value >= 0 {
				v = uint16(value)
			}
			require.NoError(t, e.tree.Insert(k, v))
		}
		require.NoError(t, e.tree.Verify())
		return e.tree.String()

	case "delete":
		var b strings.Builder
		for _, k := range parseKeys(t, d.Input) {
			if !e.tree.Delete(k) {
				fmt.Fprintf(&b, "not found: %d\n", k)
			}
		}
		require.NoError(t, e.tree.Verify())
		b.WriteString(e.tree.String())
		return b.String()

	case "search":
		var b strings.Builder
		for _, k := range parseKeys(t, d.Input) {
			leaf, parent := e.tree.Search(k)
			fmt.Fprintf(&b, "%d: leaf=%d parent=%d", k, leaf, parent)
			if v, ok := e.tree.Get(k); ok {
				fmt.Fprintf(&b, " value=%d\n", v)
			} else {
				b.WriteString(" absent\n")
			}
		}
		return b.String()

	case "dump":
		return e.tree.String()

	default:
		d.Fatalf(t, "unknown command %s", d.Cmd)
		return ""
	}
}

// fatalRecorder captures Fatalf instead of stopping the test.
type fatalRecorder struct {
	testing.TB
	msg string
}

func (r *fatalRecorder) Helper() {}

func (r *fatalRecorder) Fatalf(format string, args ...interface{}) {
	r.msg = fmt.Sprintf(format, args...)
}

func TestUnknownCommandFails(t *testing.T) {
	rec := &fatalRecorder{TB: t}
	out := newTreeEnv().exec(rec, &datadriven.TestData{Cmd: "inset"})
	require.Empty(t, out)
	require.Contains(t, rec.msg, "unknown command inset")
}

func parseKeys(t testing.TB, input string) []uint16 {
	t.Helper()
	var keys []uint16
	for _, f := range strings.Fields(input) {
		k, err := strconv.ParseUint(f, 10, 16)
		require.NoError(t, err)
		keys = append(keys, uint16(k))
	}
	return keys
}
