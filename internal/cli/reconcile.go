package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Additional-Code/ordergraph/internal/config"
	"github.com/Additional-Code/ordergraph/internal/dto"
	"github.com/Additional-Code/ordergraph/internal/entity"
	"github.com/Additional-Code/ordergraph/internal/logger"
	"github.com/Additional-Code/ordergraph/internal/model"
	"github.com/Additional-Code/ordergraph/internal/reconcile"
)

type reconcileOutput struct {
	Order    *model.CustomerOrder `json:"order"`
	Changes  []dto.ChangeSummary  `json:"changes"`
	Dangling int                  `json:"dangling"`
}

// newReconcileCmd merges two order snapshots offline, without a database.
func newReconcileCmd() *cobra.Command {
	var currentPath, incomingPath string
	var dump, verbose bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Merge an incoming order snapshot into a current one and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := readOrder(currentPath)
			if err != nil {
				return err
			}
			incoming, err := readOrder(incomingPath)
			if err != nil {
				return err
			}

			log := zap.NewNop()
			if verbose {
				log, err = logger.Build(config.Observability{
					ServiceName: "ordergraph",
					Environment: "cli",
					LogLevel:    "debug",
					LogEncoding: "console",
				})
				if err != nil {
					return err
				}
				defer func() { _ = log.Sync() }()
			}

			return runReconcile(cmd.OutOrStdout(), current, incoming, dump, log)
		},
	}

	cmd.Flags().StringVar(&currentPath, "current", "", "Path to the persisted order JSON")
	cmd.Flags().StringVar(&incomingPath, "incoming", "", "Path to the incoming order JSON")
	cmd.Flags().BoolVar(&dump, "dump", false, "Dump the merged entity graph after the JSON result")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log reconciliation details to stderr")
	_ = cmd.MarkFlagRequired("current")
	_ = cmd.MarkFlagRequired("incoming")

	return cmd
}

func runReconcile(out io.Writer, current, incoming *model.CustomerOrder, dump bool, log *zap.Logger) error {
	f := entity.DefaultFactory{}
	built, err := f.NewOrder().FromModel(current, f, nil)
	if err != nil {
		return fmt.Errorf("build current graph: %w", err)
	}
	graph := built.(*entity.Order)
	graph.MarkLoaded()

	res, err := reconcile.New(reconcile.WithLogger(log)).Run(graph, incoming)
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}

	mf := model.DefaultFactory{}
	merged, err := res.Order.ToModel(mf.NewCustomerOrder(), mf)
	if err != nil {
		return fmt.Errorf("map merged graph: %w", err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(reconcileOutput{
		Order:    merged.(*model.CustomerOrder),
		Changes:  dto.Summarize(res.Stats),
		Dangling: len(res.Dangling),
	}); err != nil {
		return err
	}

	if dump {
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
		cfg.Fdump(out, res.Order)
	}
	return nil
}

func readOrder(path string) (*model.CustomerOrder, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var order model.CustomerOrder
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &order, nil
}
