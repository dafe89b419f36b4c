package signals

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// JobInfo describes a print job.
type JobInfo struct {
	Owner    string
	Document string
	Printer  string
}

// JobLookup resolves job details from a job ID. ok is false when the job is
// not known (yet) to the print system.
type JobLookup func(jobID string) (info JobInfo, ok bool)

// PrintSpoolSource reports a Print event for every job control file that
// appears in a CUPS spool directory.
type PrintSpoolSource struct {
	dir          string
	defaultOwner string
	lookup       JobLookup
	now          func() time.Time

	fsWatcher  *fsnotify.Watcher
	out        chan<- Event
	done       chan struct{}
	wg         sync.WaitGroup
	debounce   map[string]*time.Timer
	debounceMu sync.Mutex
	seenMu     sync.Mutex
	seen       map[string]bool
}

// NewPrintSpoolSource watches dir. defaultOwner is used when the print
// system cannot name the job's owner.
func NewPrintSpoolSource(dir, defaultOwner string, lookup JobLookup) *PrintSpoolSource {
	if lookup == nil {
		lookup = LpstatLookup
	}
	return &PrintSpoolSource{
		dir:          dir,
		defaultOwner: defaultOwner,
		lookup:       lookup,
		now:          time.Now,
		done:         make(chan struct{}),
		debounce:     make(map[string]*time.Timer),
		seen:         make(map[string]bool),
	}
}

// Name identifies the source in diagnostics.
func (p *PrintSpoolSource) Name() string {
	return "printspool"
}

// Start begins watching the spool directory.
func (p *PrintSpoolSource) Start(out chan<- Event) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsWatcher.Add(p.dir); err != nil {
		fsWatcher.Close()
		return fmt.Errorf("watch %s: %w", p.dir, err)
	}

	p.fsWatcher = fsWatcher
	p.out = out
	p.wg.Add(1)
	go p.processEvents()
	return nil
}

// Close stops watching.
func (p *PrintSpoolSource) Close() error {
	close(p.done)
	if p.fsWatcher == nil {
		return nil
	}
	err := p.fsWatcher.Close()
	p.wg.Wait()

	p.debounceMu.Lock()
	for path, timer := range p.debounce {
		timer.Stop()
		delete(p.debounce, path)
	}
	p.debounceMu.Unlock()
	return err
}

func (p *PrintSpoolSource) processEvents() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case event, ok := <-p.fsWatcher.Events:
			if !ok {
				return
			}
			p.handleEvent(event)
		case err, ok := <-p.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Printf("[signals] print spool watcher error: %v", err)
		}
	}
}

func (p *PrintSpoolSource) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	jobID, ok := ParseControlFile(filepath.Base(event.Name))
	if !ok {
		return
	}

	// CUPS writes the control file in several steps; wait for it to settle
	// so the job is visible to the lookup.
	p.debounceEvent(event.Name, func() {
		p.reportJob(jobID)
	})
}

func (p *PrintSpoolSource) debounceEvent(path string, fn func()) {
	p.debounceMu.Lock()
	defer p.debounceMu.Unlock()

	if timer, ok := p.debounce[path]; ok {
		timer.Stop()
	}

	p.debounce[path] = time.AfterFunc(250*time.Millisecond, func() {
		p.debounceMu.Lock()
		delete(p.debounce, path)
		p.debounceMu.Unlock()
		fn()
	})
}

func (p *PrintSpoolSource) reportJob(jobID string) {
	p.seenMu.Lock()
	if p.seen[jobID] {
		p.seenMu.Unlock()
		return
	}
	p.seen[jobID] = true
	p.seenMu.Unlock()

	info, ok := p.lookup(jobID)
	if !ok {
		info = JobInfo{}
	}
	if info.Owner == "" {
		info.Owner = p.defaultOwner
	}
	if info.Document == "" {
		info.Document = "job " + jobID
	}
	if info.Printer == "" {
		info.Printer = "Unknown"
	}

	send(p.out, p.done, Event{
		Kind:     KindPrint,
		At:       p.now(),
		Owner:    info.Owner,
		Document: info.Document,
		Printer:  info.Printer,
	})
}

// ParseControlFile extracts the job ID from a CUPS control file name such as
// "c00042". Data files ("d00042-001") and anything else are rejected.
func ParseControlFile(name string) (string, bool) {
	if len(name) < 2 || name[0] != 'c' {
		return "", false
	}
	digits := name[1:]
	for _, c := range digits {
		if c < '0' || c > '9' {
			return "", false
		}
	}
	id := strings.TrimLeft(digits, "0")
	if id == "" {
		return "", false
	}
	return id, true
}

// LpstatLookup asks CUPS for the job's printer and owner.
func LpstatLookup(jobID string) (JobInfo, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	out, err := execRunner(ctx, "lpstat", "-W", "all", "-o")
	if err != nil {
		return JobInfo{}, false
	}
	return ParseLpstat(out, jobID)
}

// ParseLpstat finds jobID in `lpstat -o` output, whose lines look like
// "Office_Laser-42   alice   1024   Mon 12 Jan 2026 09:00:00".
func ParseLpstat(output []byte, jobID string) (JobInfo, bool) {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		dash := strings.LastIndex(fields[0], "-")
		if dash <= 0 || fields[0][dash+1:] != jobID {
			continue
		}
		return JobInfo{
			Owner:   fields[1],
			Printer: fields[0][:dash],
		}, true
	}
	return JobInfo{}, false
}
