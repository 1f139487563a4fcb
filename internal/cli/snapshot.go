package cli

import (
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/walletsync/internal/output"
	"github.com/mrz1836/walletsync/internal/reset"
	"github.com/mrz1836/walletsync/internal/snapshot"
	"github.com/mrz1836/walletsync/internal/wallet"
	syncerr "github.com/mrz1836/walletsync/pkg/errors"
)

// snapshotCmd is the parent command for snapshot slot operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var snapshotCmd = &cobra.Command{
	Use:     "snapshot",
	Aliases: []string{"snap"},
	Short:   "Inspect and manage session snapshots",
	Long: `List, inspect, check and delete the session snapshots a wallet is
restored from. A slot defaults to sync.default_slot when omitted.`,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshot slots",
	Long: `List every snapshot slot in the snapshot directory.

Example:
  walletsync snapshot list
  walletsync snapshot list -o json`,
	Args: cobra.NoArgs,
	RunE: runSnapshotList,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var snapshotShowCmd = &cobra.Command{
	Use:   "show [slot]",
	Short: "Show snapshot details",
	Long: `Show a snapshot's size, modification time, fingerprint and recorded
sync offset. The offset is only shown when the snapshot can be opened.

Example:
  walletsync snapshot show
  walletsync snapshot show alice.snapshot -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSnapshotShow,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var snapshotCheckCmd = &cobra.Command{
	Use:   "check [slot]",
	Short: "Check a snapshot against the live chain offset",
	Long: `Compare the sync offset recorded in a snapshot with the offset the live
chain reports. A snapshot whose offset is ahead of the chain by more than the
tolerance comes from a chain that has been reset and cannot be restored.

Example:
  walletsync snapshot check --live-offset 1200
  walletsync snapshot check alice.snapshot --live-offset 40 --tolerance 2`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSnapshotCheck,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete [slot]",
	Short: "Delete a snapshot",
	Long: `Delete a snapshot slot. The next acquire for that slot rebuilds the
wallet from its seed and resynchronizes from genesis.

Example:
  walletsync snapshot delete alice.snapshot --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSnapshotDelete,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	snapshotForce      bool
	snapshotLiveOffset uint64
	snapshotTolerance  uint64
)

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
	snapshotCmd.AddCommand(snapshotCheckCmd)
	snapshotCmd.AddCommand(snapshotDeleteCmd)

	snapshotDeleteCmd.Flags().BoolVar(&snapshotForce, "force", false, "confirm deletion")

	snapshotCheckCmd.Flags().Uint64Var(&snapshotLiveOffset, "live-offset", 0, "offset the live chain currently reports")
	snapshotCheckCmd.Flags().Uint64Var(&snapshotTolerance, "tolerance", reset.DefaultTolerance, "offset lag tolerated before declaring a reset")
	_ = snapshotCheckCmd.MarkFlagRequired("live-offset")
}

// snapshotDetail is the show output.
type snapshotDetail struct {
	*snapshot.Info

	Offset      *uint64 `json:"offset,omitempty"`
	OffsetError string  `json:"offset_error,omitempty"`
}

// checkResult is the check output.
type checkResult struct {
	Slot      string `json:"slot"`
	Reset     bool   `json:"reset"`
	Restored  uint64 `json:"restored_offset"`
	Live      uint64 `json:"live_offset"`
	Tolerance uint64 `json:"tolerance"`
}

func runSnapshotList(cmd *cobra.Command, _ []string) error {
	cc := commandContext()

	slots, err := cc.Store.List()
	if err != nil {
		return err
	}

	infos := make([]*snapshot.Info, 0, len(slots))
	for _, slot := range slots {
		info, err := cc.Store.Stat(slot)
		if err != nil {
			cc.Logger.Error("stat %s: %v", slot, err)
			continue
		}
		infos = append(infos, info)
	}

	return cmdFormatter(cmd).Result(infos, func(w io.Writer) error {
		if len(infos) == 0 {
			out(w, "No snapshots in %s\n", cc.Store.Dir())
			return nil
		}

		table := output.NewTable("SLOT", "SIZE", "MODIFIED", "SEALED", "FINGERPRINT").
			AlignColumn(1, output.AlignRight)
		for _, info := range infos {
			table.AddRow(
				info.Slot,
				strconv.FormatInt(info.Size, 10),
				info.ModTime.Local().Format(time.DateTime),
				yesNo(info.Sealed),
				info.Fingerprint,
			)
		}
		return table.Render(w)
	})
}

func runSnapshotShow(cmd *cobra.Command, args []string) error {
	cc := commandContext()
	slot := cc.slotArg(args)

	info, err := cc.Store.Stat(slot)
	if err != nil {
		return err
	}

	detail := snapshotDetail{Info: info}
	if offset, err := loadOffset(cc.Store, slot); err != nil {
		detail.OffsetError = syncerr.Code(err)
		cc.Logger.Debug("snapshot %s offset unavailable: %v", slot, err)
	} else {
		v := uint64(offset)
		detail.Offset = &v
	}

	return cmdFormatter(cmd).Result(detail, func(w io.Writer) error {
		out(w, "Slot:        %s\n", info.Slot)
		out(w, "Path:        %s\n", info.Path)
		out(w, "Size:        %d bytes\n", info.Size)
		out(w, "Modified:    %s\n", info.ModTime.Local().Format(time.DateTime))
		out(w, "Sealed:      %s\n", yesNo(info.Sealed))
		out(w, "Fingerprint: %s\n", info.Fingerprint)
		if detail.Offset != nil {
			out(w, "Offset:      %d\n", *detail.Offset)
		} else {
			out(w, "Offset:      unavailable (%s)\n", detail.OffsetError)
		}
		return nil
	})
}

func runSnapshotCheck(cmd *cobra.Command, args []string) error {
	cc := commandContext()
	slot := cc.slotArg(args)

	restored, err := loadOffset(cc.Store, slot)
	if err != nil {
		return err
	}

	verdict := reset.Evaluate(wallet.SyncOffset(snapshotLiveOffset), restored, snapshotTolerance)
	cc.Logger.Debug("reset check %s: live=%d restored=%d tolerance=%d reset=%t",
		slot, verdict.Live, verdict.Restored, verdict.Tolerance, verdict.Reset)

	result := checkResult{
		Slot:      slot,
		Reset:     verdict.Reset,
		Restored:  uint64(verdict.Restored),
		Live:      uint64(verdict.Live),
		Tolerance: verdict.Tolerance,
	}

	return cmdFormatter(cmd).Result(result, func(w io.Writer) error {
		if verdict.Reset {
			output.Warnf(w, "chain reset detected for %s: snapshot offset %d, live offset %d",
				slot, result.Restored, result.Live)
			outln(w, "The next acquire will rebuild this wallet from its seed.")
			return nil
		}
		output.Successf(w, "%s is consistent with the live chain (snapshot offset %d, live offset %d)",
			slot, result.Restored, result.Live)
		return nil
	})
}

func runSnapshotDelete(cmd *cobra.Command, args []string) error {
	cc := commandContext()
	slot := cc.slotArg(args)

	if err := snapshot.ValidateSlot(slot); err != nil {
		return err
	}
	if !snapshotForce {
		return syncerr.WithSuggestion(
			syncerr.WithDetails(syncerr.ErrInvalidInput, map[string]string{"slot": slot}),
			"deleting a snapshot forces a full resync; pass --force to confirm",
		)
	}

	if err := cc.Store.Delete(slot); err != nil {
		return err
	}
	cc.Logger.Debug("deleted snapshot %s", slot)

	return cmdFormatter(cmd).Result(map[string]string{"deleted": slot}, func(w io.Writer) error {
		output.Successf(w, "Deleted snapshot %s", slot)
		return nil
	})
}

// loadOffset reads the sync offset recorded in a slot.
func loadOffset(store SnapshotStore, slot string) (wallet.SyncOffset, error) {
	blob, err := store.Load(slot)
	if err != nil {
		return 0, err
	}
	return wallet.ExtractOffset(blob)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
