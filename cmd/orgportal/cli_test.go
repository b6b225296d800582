package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/orgportal/modules/org/domain/nodekey"
	"github.com/iota-uz/orgportal/modules/org/domain/orgconfig"
	"github.com/iota-uz/orgportal/modules/org/domain/orgtree"
	"github.com/iota-uz/orgportal/modules/roster/domain/employee"
	"github.com/iota-uz/orgportal/pkg/configuration"
	"github.com/iota-uz/orgportal/pkg/kvstore"
)

const rosterCSV = "\xEF\xBB\xBF사번,성명,회사,부서,팀,직책\n" +
	"1,Kim,Acme,,,CEO\n" +
	"2,Lee,Acme,Sales,,Department Head\n" +
	"3,Park,Acme,Sales,,\n" +
	"4,Choi,Acme,Sales,Field,Team Lead\n"

func run(t *testing.T, store kvstore.Store, args ...string) (string, error) {
	t.Helper()
	return runWith(t, func() (*app, error) { return newApp(testConfig(), store), nil }, args...)
}

func testConfig() *configuration.Configuration {
	return &configuration.Configuration{
		Locale:          "en",
		DefaultPriority: 999,
		HeaderScanRows:  20,
		LogLevel:        "silent",
	}
}

func runWith(t *testing.T, open func() (*app, error), args ...string) (string, error) {
	t.Helper()
	cmd, c := newRootCmd(open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := runCommand(context.Background(), cmd, c)
	return out.String(), err
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func imported(t *testing.T) kvstore.Store {
	t.Helper()
	store := kvstore.NewMemory()
	_, err := run(t, store, "import", "--file", writeFile(t, "roster.csv", rosterCSV), "--yes", "--admin")
	require.NoError(t, err)
	return store
}

func TestImport_DryRunThenApply(t *testing.T) {
	store := kvstore.NewMemory()
	path := writeFile(t, "roster.csv", rosterCSV)

	out, err := run(t, store, "import", "--file", path)
	require.NoError(t, err)
	var summary importSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	require.Equal(t, 4, summary.Parsed)
	require.Equal(t, 1, summary.HeaderRow)
	require.Equal(t, []string{"Acme"}, summary.Companies)
	require.Contains(t, summary.Columns, "department")
	require.False(t, summary.Applied)

	out, err = run(t, store, "companies")
	require.NoError(t, err)
	require.JSONEq(t, `[]`, out)

	_, err = run(t, store, "import", "--file", path, "--yes")
	require.Equal(t, exitForbidden, exitCode(err))

	out, err = run(t, store, "import", "--file", path, "--yes", "--admin")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	require.True(t, summary.Applied)

	out, err = run(t, store, "companies")
	require.NoError(t, err)
	require.JSONEq(t, `["Acme"]`, out)
}

func TestImport_Failures(t *testing.T) {
	store := kvstore.NewMemory()

	_, err := run(t, store, "import", "--file", writeFile(t, "roster.pdf", "x"))
	require.Equal(t, exitUsage, exitCode(err))

	_, err = run(t, store, "import", "--file", writeFile(t, "roster.csv", "a,b\n1,2\n"))
	require.Equal(t, exitValidation, exitCode(err))
}

func TestTree(t *testing.T) {
	store := imported(t)

	out, err := run(t, store, "tree")
	require.NoError(t, err)
	var tree orgtree.OrgNode
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	require.Equal(t, nodekey.CEO("Acme"), tree.ID)
	require.Equal(t, "1", tree.ManagerID)
	require.Equal(t, "2", tree.Find(nodekey.Department("Sales")).ManagerID)

	out, err = run(t, store, "tree", "--company", "Acme", "--format", "yaml")
	require.NoError(t, err)
	require.Contains(t, out, "type: CEO")
	require.Contains(t, out, "DEPT:Sales")

	out, err = run(t, store, "tree", "--paths")
	require.NoError(t, err)
	var paths map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &paths))
	require.Equal(t, "Acme / Unclassified / Sales / Field", paths["TEAM:Field"])

	_, err = run(t, store, "tree", "--format", "xml")
	require.Equal(t, exitUsage, exitCode(err))
}

func TestTree_CompanyRequiredWhenAmbiguous(t *testing.T) {
	store := kvstore.NewMemory()
	_, err := run(t, store, "tree")
	require.Equal(t, exitUsage, exitCode(err))
}

func TestDirectory(t *testing.T) {
	store := imported(t)

	out, err := run(t, store, "directory", "--query", "park")
	require.NoError(t, err)
	var list []directoryEntry
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	require.Equal(t, "3", list[0].ID)
	require.Empty(t, list[0].LoanedTo)

	_, err = run(t, store, "config", "member", "add", "TEAM:Field", "3", "--admin")
	require.NoError(t, err)
	out, err = run(t, store, "directory", "--query", "park")
	require.NoError(t, err)
	list = nil
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Equal(t, []nodekey.Key{nodekey.Team("Field")}, list[0].LoanedTo)
}

func TestConfigCommands(t *testing.T) {
	store := imported(t)

	_, err := run(t, store, "config", "group", "set", "Sales", "Commercial")
	require.Equal(t, exitForbidden, exitCode(err))

	_, err = run(t, store, "config", "group", "set", "Sales", "Commercial", "--admin")
	require.NoError(t, err)
	_, err = run(t, store, "config", "order", "set", "DIV:Commercial", "first", "--admin")
	require.Equal(t, exitUsage, exitCode(err))
	_, err = run(t, store, "config", "order", "set", "Commercial", "1", "--admin")
	require.Equal(t, exitValidation, exitCode(err))
	_, err = run(t, store, "config", "order", "set", "DIV:Commercial", "1", "--admin")
	require.NoError(t, err)
	_, err = run(t, store, "config", "leader", "set", "DEPT:Sales", "404", "--admin")
	require.Equal(t, exitValidation, exitCode(err))
	_, err = run(t, store, "config", "leader", "set", "DEPT:Sales", "3", "--admin")
	require.NoError(t, err)
	_, err = run(t, store, "config", "member", "add", "TEAM:Field", "2", "--admin")
	require.NoError(t, err)

	out, err := run(t, store, "config", "show")
	require.NoError(t, err)
	var tables orgconfig.Tables
	require.NoError(t, json.Unmarshal([]byte(out), &tables))
	require.Equal(t, "Commercial", tables.Grouping["Sales"])
	require.Equal(t, 1, tables.SortOrder[nodekey.Division("Commercial")])
	require.Equal(t, "3", tables.Leadership[nodekey.Department("Sales")])
	require.Equal(t, []string{"2"}, tables.CrossUnit[nodekey.Team("Field")])

	out, err = run(t, store, "tree")
	require.NoError(t, err)
	var tree orgtree.OrgNode
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	require.NotNil(t, tree.Find(nodekey.Division("Commercial")))
	require.Equal(t, "3", tree.Find(nodekey.Department("Sales")).ManagerID)

	_, err = run(t, store, "config", "leader", "clear", "DEPT:Sales", "--admin")
	require.NoError(t, err)
	_, err = run(t, store, "config", "member", "remove", "TEAM:Field", "2", "--admin")
	require.NoError(t, err)
	_, err = run(t, store, "config", "group", "clear", "Sales", "--admin")
	require.NoError(t, err)
	_, err = run(t, store, "config", "order", "clear", "DIV:Commercial", "--admin")
	require.NoError(t, err)

	out, err = run(t, store, "config", "show")
	require.NoError(t, err)
	tables = orgconfig.Tables{}
	require.NoError(t, json.Unmarshal([]byte(out), &tables))
	require.Empty(t, tables.Grouping)
	require.Empty(t, tables.SortOrder)
	require.Empty(t, tables.Leadership)
	require.Empty(t, tables.CrossUnit)
}

func TestConfigLoad(t *testing.T) {
	store := imported(t)
	seed := writeFile(t, "tables.toml", `
[grouping]
Sales = "Commercial"

[sort_order]
"DIV:Commercial" = 2

[leadership]
"DIV:Commercial" = "2"

[cross_unit]
"TEAM:Field" = ["3"]
`)
	out, err := run(t, store, "config", "load", "--file", seed, "--admin")
	require.NoError(t, err)
	var tables orgconfig.Tables
	require.NoError(t, json.Unmarshal([]byte(out), &tables))
	require.Equal(t, "Commercial", tables.Grouping["Sales"])
	require.Equal(t, 2, tables.SortOrder[nodekey.Division("Commercial")])
	require.Equal(t, "2", tables.Leadership[nodekey.Division("Commercial")])
	require.Equal(t, []string{"3"}, tables.CrossUnit[nodekey.Team("Field")])

	bad := writeFile(t, "bad.toml", "[groupings]\nSales = \"x\"\n")
	_, err = run(t, store, "config", "load", "--file", bad, "--admin")
	require.Equal(t, exitValidation, exitCode(err))
}

func TestEmployeeCommands(t *testing.T) {
	store := imported(t)

	_, err := run(t, store, "employee", "set", "3", "--department", "Marketing", "--admin")
	require.NoError(t, err)
	_, err = run(t, store, "employee", "set", "404", "--team", "X", "--admin")
	require.Equal(t, exitValidation, exitCode(err))
	_, err = run(t, store, "employee", "add", "5", "--name", "Yoon", "--company", "Acme", "--joined", "2021-04-01", "--admin")
	require.NoError(t, err)
	_, err = run(t, store, "employee", "add", "6", "--company", "Acme", "--admin")
	require.Equal(t, exitValidation, exitCode(err))
	_, err = run(t, store, "employee", "delete", "4", "--admin")
	require.NoError(t, err)

	out, err := run(t, store, "directory")
	require.NoError(t, err)
	var list employee.Roster
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	ids := make([]string, 0, len(list))
	for _, e := range list {
		ids = append(ids, e.ID)
		if e.ID == "3" {
			require.Equal(t, "Marketing", e.Department)
		}
	}
	require.ElementsMatch(t, []string{"1", "2", "3", "5"}, ids)
}

func TestAppClosedWhenCommandFails(t *testing.T) {
	store := imported(t)
	for _, args := range [][]string{
		{"companies"},
		{"config", "order", "set", "DIV:Sales", "first", "--admin"},
		{"employee", "delete", "404", "--admin"},
	} {
		closed := 0
		open := func() (*app, error) {
			a := newApp(testConfig(), store)
			a.closers = append(a.closers, func() { closed++ })
			return a, nil
		}
		_, _ = runWith(t, open, args...)
		require.Equal(t, 1, closed, args)
	}
}
