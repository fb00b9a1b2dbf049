package commands

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lc-login/lc-login/internal/cli/output"
)

type accountRow struct {
	uid         uint32
	name        string
	home        string
	hasPassword bool
}

func (r accountRow) Row() []string {
	name := r.name
	if name == "" {
		name = "-"
	}
	home := r.home
	if home == "" {
		home = "-"
	}
	return []string{
		strconv.FormatUint(uint64(r.uid), 10),
		name,
		home,
		strconv.FormatBool(r.hasPassword),
	}
}

type accountTable []accountRow

func (t accountTable) Headers() []string {
	return []string{"UID", "NAME", "HOME", "HAS PASSWORD"}
}

func (t accountTable) Rows() [][]string {
	rows := make([][]string, len(t))
	for i, r := range t {
		rows[i] = r.Row()
	}
	return rows
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every account under the configured users root",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		handles, err := accounts.List()
		if err != nil {
			return err
		}

		table := make(accountTable, 0, len(handles))
		for _, h := range handles {
			uid, err := h.UID()
			if err != nil {
				continue
			}
			name, _ := h.Name()
			home, _ := h.Home()
			table = append(table, accountRow{
				uid:         uid,
				name:        name,
				home:        home,
				hasPassword: h.HasPassword(),
			})
		}

		return output.PrintTable(os.Stdout, table)
	},
}
