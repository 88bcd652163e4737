package matcher

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/models"
	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/parser"
	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/staging"
)

// ErrNoSubmissions indicates files were present but no receipt/notebook pair was usable.
var ErrNoSubmissions = errors.New("no valid submissions found")

// Unidentified is the username reported for skips that cannot be attributed to a student.
const Unidentified = "unidentified"

// Skip reasons.
const (
	ReasonBlank        = "blank submission"
	ReasonNotNotebook  = "submission has no notebook"
	ReasonAmbiguous    = "submission has more than one notebook"
	ReasonUnidentified = "receipt names no student"
	ReasonOrphan       = "notebook has no receipt"
	ReasonSuperseded   = "superseded by a later attempt"
	ReasonNoFolder     = "no submitted folder for student"
	ReasonUnreadable   = "receipt could not be read"
)

// Options configures matching.
type Options struct {
	// ReceiptExt is the receipt file extension (default ".txt").
	ReceiptExt string
	// NotebookExt is the notebook file extension (default ".ipynb").
	NotebookExt string
	// Logger receives skip diagnostics. Nil means no logging.
	Logger *zap.Logger
}

// DefaultOptions returns the LMS download conventions.
func DefaultOptions() Options {
	return Options{ReceiptExt: ".txt", NotebookExt: ".ipynb"}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.ReceiptExt == "" {
		o.ReceiptExt = d.ReceiptExt
	}
	if o.NotebookExt == "" {
		o.NotebookExt = d.NotebookExt
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Result is the outcome of matching an extracted download.
type Result struct {
	// Dir is the directory the files were matched in.
	Dir string `json:"dir"`
	// Matched holds one submission per identified student.
	Matched []models.Submission `json:"matched"`
	// Skipped holds every pair or file not carried forward.
	Skipped []models.Skip `json:"skipped"`
	// Receipts is the number of receipt files seen.
	Receipts int `json:"receipts"`
	// Notebooks is the number of notebook files seen.
	Notebooks int `json:"notebooks"`
}

// CountMismatch reports whether receipts and notebooks do not pair up one to one.
func (r *Result) CountMismatch() bool {
	return r.Receipts != r.Notebooks
}

// Usernames returns the matched usernames in match order.
func (r *Result) Usernames() []string {
	out := make([]string, 0, len(r.Matched))
	for _, s := range r.Matched {
		out = append(out, s.Username)
	}
	return out
}

func (r *Result) skip(log *zap.Logger, username, file, reason string) {
	if username == "" || username == models.UnknownUsername {
		username = Unidentified
	}
	r.Skipped = append(r.Skipped, models.Skip{Username: username, File: file, Reason: reason})
	log.Warn("skipping submission", zap.String("username", username), zap.String("file", file), zap.String("reason", reason))
}

// Match groups the files in dir by receipt stem and pairs each receipt with its notebook.
// A receipt "<stem>.txt" owns "<stem>.ipynb" and any "<stem>_*" file. When a
// student has several attempts, the attempt sorting last by name is kept.
// Malformed pairs are skipped, never fatal.
func Match(dir string, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	log := opts.Logger

	files, err := staging.List(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyArchive, dir)
	}

	res := &Result{Dir: dir}
	var receipts []string
	for _, f := range files {
		switch {
		case hasExt(f, opts.ReceiptExt):
			receipts = append(receipts, f)
			res.Receipts++
		case hasExt(f, opts.NotebookExt):
			res.Notebooks++
		}
	}

	owned := assignOwners(files, receipts, opts.ReceiptExt)

	byUser := make(map[string]int)
	for _, receipt := range receipts {
		rec, err := parser.ReadReceipt(filepath.Join(dir, receipt))
		if err != nil {
			log.Debug("read receipt failed", zap.String("file", receipt), zap.Error(err))
			res.skip(log, "", receipt, ReasonUnreadable)
			continue
		}

		var notebooks []string
		for _, f := range owned[receipt] {
			if hasExt(f, opts.NotebookExt) {
				notebooks = append(notebooks, f)
			}
		}

		switch {
		case len(owned[receipt]) == 0:
			res.skip(log, rec.Username, receipt, ReasonBlank)
		case len(notebooks) == 0:
			res.skip(log, rec.Username, owned[receipt][0], ReasonNotNotebook)
		case len(notebooks) > 1:
			res.skip(log, rec.Username, receipt, ReasonAmbiguous)
		case !rec.Identified():
			res.skip(log, rec.Username, receipt, ReasonUnidentified)
		default:
			sub := models.Submission{
				Username:     rec.Username,
				ReceiptFile:  receipt,
				NotebookFile: notebooks[0],
				Receipt:      rec,
			}
			if i, ok := byUser[rec.Username]; ok {
				res.skip(log, rec.Username, res.Matched[i].ReceiptFile, ReasonSuperseded)
				res.Matched[i] = sub
				continue
			}
			byUser[rec.Username] = len(res.Matched)
			res.Matched = append(res.Matched, sub)
		}
	}

	claimed := make(map[string]bool)
	for _, fs := range owned {
		for _, f := range fs {
			claimed[f] = true
		}
	}
	for _, f := range files {
		if hasExt(f, opts.NotebookExt) && !claimed[f] {
			res.skip(log, "", f, ReasonOrphan)
		}
	}

	if res.CountMismatch() {
		log.Warn("file count mismatch",
			zap.Int("receipts", res.Receipts),
			zap.Int("notebooks", res.Notebooks))
	}
	if len(res.Matched) == 0 {
		return res, fmt.Errorf("%w in %s (%d files)", ErrNoSubmissions, dir, len(files))
	}
	log.Info("matched submissions",
		zap.Int("matched", len(res.Matched)),
		zap.Int("skipped", len(res.Skipped)))
	return res, nil
}

// assignOwners maps each receipt to the non-receipt files sharing its stem.
// A file belongs to the receipt with the longest matching stem.
func assignOwners(files, receipts []string, receiptExt string) map[string][]string {
	type stem struct{ receipt, stem string }
	stems := make([]stem, 0, len(receipts))
	for _, r := range receipts {
		stems = append(stems, stem{receipt: r, stem: strings.TrimSuffix(r, filepath.Ext(r))})
	}
	sort.SliceStable(stems, func(i, j int) bool { return len(stems[i].stem) > len(stems[j].stem) })

	owned := make(map[string][]string, len(receipts))
	for _, f := range files {
		if hasExt(f, receiptExt) {
			continue
		}
		base := strings.TrimSuffix(f, filepath.Ext(f))
		for _, s := range stems {
			if base == s.stem || strings.HasPrefix(f, s.stem+"_") {
				owned[s.receipt] = append(owned[s.receipt], f)
				break
			}
		}
	}
	return owned
}

func hasExt(name, ext string) bool {
	return strings.EqualFold(filepath.Ext(name), ext)
}
