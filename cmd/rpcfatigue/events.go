package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/galuszkm/rpc3"
)

// An EventSet is the YAML description of a load schedule: which files to
// read and how often each measurement repeats.
type EventSet struct {
	Name   string      `yaml:"name"`
	Slope  float64     `yaml:"slope"`
	Gate   float64     `yaml:"gate"`
	Events []EventSpec `yaml:"events"`
}

// An EventSpec names one measurement file and its repetition count.
type EventSpec struct {
	Name        string `yaml:"name"`
	File        string `yaml:"file"`
	Repetitions int    `yaml:"repetitions"`
}

// loadEventSet reads and validates an event-set file. Relative measurement
// paths resolve against the event-set file's directory.
func loadEventSet(path string) (*EventSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	set := &EventSet{Slope: 5}
	if err := yaml.Unmarshal(data, set); err != nil {
		return nil, errors.Wrapf(err, "event set %q", path)
	}
	if len(set.Events) == 0 {
		return nil, errors.Errorf("event set %q names no events", path)
	}
	base := filepath.Dir(path)
	for i := range set.Events {
		e := &set.Events[i]
		if e.Repetitions < 1 {
			return nil, errors.Errorf("event %q: repetitions must be positive", e.Name)
		}
		if !filepath.IsAbs(e.File) {
			e.File = filepath.Join(base, e.File)
		}
	}
	return set, nil
}

// loadFiles decodes every measurement of the set and returns the parsed
// files together with the aggregator events keyed by content hash.
func (set *EventSet) loadFiles() ([]*rpc3.File, []rpc3.Event, error) {
	var files []*rpc3.File
	var events []rpc3.Event
	for _, spec := range set.Events {
		data, err := os.ReadFile(spec.File)
		if err != nil {
			return nil, nil, errors.WithStack(err)
		}
		f := rpc3.NewFile(data, spec.File, rpc3.WithLogger(logger))
		if !f.Parse() {
			for _, e := range f.Errs() {
				logger.Error().Msg(e)
			}
			return nil, nil, errors.Errorf("decoding %q failed", spec.File)
		}
		logger.Info().
			Str("file", spec.File).
			Str("size", f.Size()).
			Int("channels", len(f.Channels())).
			Int("repetitions", spec.Repetitions).
			Msg("loaded event")
		files = append(files, f)
		events = append(events, rpc3.Event{
			Name:        spec.Name,
			FileHash:    f.Hash(),
			Repetitions: spec.Repetitions,
		})
	}
	return files, events, nil
}

// channelGroups collects channels of the same name across the files, in
// first-seen order.
func channelGroups(files []*rpc3.File) (names []string, groups map[string][]*rpc3.Channel) {
	groups = make(map[string][]*rpc3.Channel)
	for _, f := range files {
		for _, c := range f.Channels() {
			if _, ok := groups[c.Name]; !ok {
				names = append(names, c.Name)
			}
			groups[c.Name] = append(groups[c.Name], c)
		}
	}
	return names, groups
}

// repetitionsOf returns the repetition count of the event covering hash.
func repetitionsOf(events []rpc3.Event, hash string) int {
	for _, e := range events {
		if e.FileHash == hash {
			return e.Repetitions
		}
	}
	return 1
}
