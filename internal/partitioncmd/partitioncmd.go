// Package partitioncmd is the command line interface of the partitioning,
// it chunks the lines of a file and prints every chunk as a JSON array.
//
// With a checkpoint database, the progress is kept between runs,
// so a run that was cut short with -limit is continued by the next one.
package partitioncmd

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"go.llib.dev/frameless/pkg/cli"
	"go.llib.dev/frameless/pkg/errorkit"
	"go.llib.dev/frameless/pkg/logger"
	"go.llib.dev/frameless/pkg/logging"

	"go.llib.dev/resumable/pkg/checkpoint"
	"go.llib.dev/resumable/pkg/partitionkit"
	"go.llib.dev/resumable/pkg/resumekit"
)

const DefaultSize = 2

type Command struct {
	// Size has no default tag, a flag default would override PARTITION_SIZE.
	Size   int    `flag:"size" env:"PARTITION_SIZE" desc:"number of lines in a chunk, 2 when unset"`
	All    bool   `flag:"all" desc:"keep the trailing short chunk"`
	Pad    string `flag:"pad" desc:"fill the trailing short chunk with this value"`
	UsePad bool   `flag:"use-pad" desc:"pad the trailing short chunk even when -pad is empty"`
	Limit  int    `flag:"limit" desc:"maximum number of chunks to print in this run, no limit when 0"`
	DB     string `flag:"db" env:"PARTITION_DB" desc:"bolt database file that keeps the progress between runs"`
	Name   string `flag:"name" default:"default" desc:"name of the checkpoint in the database"`
	Reset  bool   `flag:"reset" desc:"start over by forgetting the saved progress"`

	Input string `arg:"0" required:"true" desc:"path of the line oriented input file"`
}

func (cmd Command) Summary() string {
	return "chunk the lines of a file into JSON arrays"
}

func (cmd Command) ServeCLI(w cli.Response, r *cli.Request) {
	if err := cmd.run(r.Context(), w); err != nil {
		cli.HandleError(w, r, err)
	}
}

func (cmd Command) run(ctx context.Context, w io.Writer) (rErr error) {
	if cmd.Size == 0 {
		cmd.Size = DefaultSize
	}
	if cmd.Size < 0 {
		return partitionkit.ErrInvalidSize.F("-size %d", cmd.Size)
	}
	f, err := os.Open(cmd.Input)
	if err != nil {
		return err
	}
	itr := cmd.partition(f)
	defer errorkit.Finish(&rErr, itr.Close)

	var cp *checkpoint.Checkpointer
	if cmd.DB != "" {
		store, err := checkpoint.OpenBoltStore(cmd.DB, nil)
		if err != nil {
			return err
		}
		defer errorkit.Finish(&rErr, store.Close)
		cp = &checkpoint.Checkpointer{Store: store}
		if cmd.Reset {
			if err := cp.Reset(ctx, cmd.Name); err != nil {
				return err
			}
		}
		if _, err := cp.Resume(ctx, cmd.Name, itr); err != nil {
			return err
		}
	}

	var (
		enc   = json.NewEncoder(w)
		count int
	)
	for (cmd.Limit <= 0 || count < cmd.Limit) && itr.Next() {
		if err := enc.Encode(itr.Value()); err != nil {
			return err
		}
		count++
	}
	if err := itr.Err(); err != nil {
		return err
	}
	logger.Debug(ctx, "chunks printed",
		logging.Field("input", cmd.Input),
		logging.Field("count", count))

	if cp != nil {
		if _, err := cp.Save(ctx, cmd.Name, itr); err != nil {
			return err
		}
	}
	return nil
}

func (cmd Command) partition(f *os.File) resumekit.Iterator[[]string] {
	if cmd.All {
		return partitionkit.PartitionAll[string](cmd.Size, f)
	}
	var opts []partitionkit.Option[string]
	if cmd.UsePad || cmd.Pad != "" {
		opts = append(opts, partitionkit.Pad(cmd.Pad))
	}
	return partitionkit.Partition(cmd.Size, f, opts...)
}
