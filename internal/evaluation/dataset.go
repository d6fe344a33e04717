package evaluation

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/lukeperry/ssu-career-connect/internal/scoring"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed dataset.yaml
var builtinDataset []byte

type Job struct {
	ID                    string `yaml:"id"`
	scoring.JobDescriptor `yaml:",inline"`
}

type Talent struct {
	ID                       string `yaml:"id"`
	Name                     string `yaml:"name"`
	scoring.TalentDescriptor `yaml:",inline"`
}

// Dataset is a labeled set of pairs. Expected is keyed by talent id, then job id.
type Dataset struct {
	Jobs     []Job                                     `yaml:"jobs"`
	Talents  []Talent                                  `yaml:"talents"`
	Expected map[string]map[string]scoring.QualityBand `yaml:"expected"`
}

// Pair is one labeled comparison.
type Pair struct {
	Job      Job
	Talent   Talent
	Expected scoring.QualityBand
}

// LoadDataset reads a dataset file, or the built-in dataset when path is empty.
func LoadDataset(path string) (*Dataset, error) {
	data := builtinDataset
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, errors.Wrap(err, "read dataset")
		}
	}
	return ParseDataset(data)
}

func ParseDataset(data []byte) (*Dataset, error) {
	var dataset Dataset
	if err := yaml.Unmarshal(data, &dataset); err != nil {
		return nil, errors.Wrap(err, "parse dataset")
	}
	if err := dataset.Validate(); err != nil {
		return nil, err
	}
	return &dataset, nil
}

// Validate checks that ids are unique, every label points at a known job and
// talent, and every descriptor would be accepted by the scoring pipeline.
func (d *Dataset) Validate() error {
	jobs := make(map[string]bool, len(d.Jobs))
	for _, job := range d.Jobs {
		if job.ID == "" || jobs[job.ID] {
			return fmt.Errorf("dataset: job id %q is empty or duplicated", job.ID)
		}
		if err := scoring.ValidateJob(job.JobDescriptor); err != nil {
			return errors.Wrapf(err, "dataset: job %v", job.ID)
		}
		jobs[job.ID] = true
	}

	talents := make(map[string]bool, len(d.Talents))
	for _, talent := range d.Talents {
		if talent.ID == "" || talents[talent.ID] {
			return fmt.Errorf("dataset: talent id %q is empty or duplicated", talent.ID)
		}
		if err := scoring.ValidateTalent(talent.TalentDescriptor); err != nil {
			return errors.Wrapf(err, "dataset: talent %v", talent.ID)
		}
		talents[talent.ID] = true
	}

	if len(d.Expected) == 0 {
		return errors.New("dataset: no expected labels")
	}
	for talentID, labels := range d.Expected {
		if !talents[talentID] {
			return fmt.Errorf("dataset: labels for unknown talent %v", talentID)
		}
		for jobID, band := range labels {
			if !jobs[jobID] {
				return fmt.Errorf("dataset: talent %v labeled against unknown job %v", talentID, jobID)
			}
			if !band.Valid() {
				return fmt.Errorf("dataset: talent %v job %v has invalid band", talentID, jobID)
			}
		}
	}
	return nil
}

// Pairs lists labeled pairs in talent order, then job order.
func (d *Dataset) Pairs() []Pair {
	var pairs []Pair
	for _, talent := range d.Talents {
		labels := d.Expected[talent.ID]
		for _, job := range d.Jobs {
			if band, ok := labels[job.ID]; ok {
				pairs = append(pairs, Pair{Job: job, Talent: talent, Expected: band})
			}
		}
	}
	return pairs
}

func (d *Dataset) Talent(id string) (Talent, bool) {
	for _, talent := range d.Talents {
		if talent.ID == id {
			return talent, true
		}
	}
	return Talent{}, false
}

func (d *Dataset) Job(id string) (Job, bool) {
	for _, job := range d.Jobs {
		if job.ID == id {
			return job, true
		}
	}
	return Job{}, false
}
