package services

import (
	"github.com/NeRF-or-Nothing/mobilenerf-samples/internal/models/scene"
)

// Job is a list of scenes of a single category, all downloaded into Dir (<base>/<category>).
type Job struct {
	Category scene.Category
	Scenes   []string
	Dir      string
}

// Targets returns the download target of every scene of the job, in order.
func (j Job) Targets() []scene.Target {
	targets := make([]scene.Target, 0, len(j.Scenes))
	for _, id := range j.Scenes {
		targets = append(targets, scene.NewTarget(j.Dir, j.Category, id))
	}
	return targets
}

// Select maps the user's intent onto jobs.
// With all set, or an empty name, it returns one job per catalog (360 first) holding the whole catalog.
// Otherwise it returns a single job for the named scene in its own category.
// Returns scene.ErrUnknownScene if name is not in any catalog.
func Select(basePath, name string, all bool) ([]Job, error) {
	if all || name == "" {
		jobs := make([]Job, 0, len(scene.Categories))
		for _, category := range scene.Categories {
			jobs = append(jobs, Job{
				Category: category,
				Scenes:   category.Scenes(),
				Dir:      category.Dir(basePath),
			})
		}
		return jobs, nil
	}

	category, err := scene.CategoryOf(name)
	if err != nil {
		return nil, err
	}
	return []Job{{
		Category: category,
		Scenes:   []string{name},
		Dir:      category.Dir(basePath),
	}}, nil
}
