package detector

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/process"
)

// SystemLister lists processes through gopsutil.
type SystemLister struct{}

// Processes returns every process whose name or path could be read.
// Processes that exit mid-scan or deny access are skipped.
func (SystemLister) Processes(ctx context.Context) ([]Process, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	out := make([]Process, 0, len(procs))
	for _, p := range procs {
		exe, err := p.ExeWithContext(ctx)
		if err != nil || exe == "" {
			exe, err = p.NameWithContext(ctx)
			if err != nil {
				continue
			}
		}
		out = append(out, Process{PID: p.Pid, Exe: exe})
	}
	return out, nil
}

var _ Lister = SystemLister{}
