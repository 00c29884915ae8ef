package common

import (
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/mitchellh/mapstructure"
)

type InnerSpec interface{}

type MomentsSpec struct {
	Seed    []uint32 `json:"seed" mapstructure:"seed"`
	Counter []uint32 `json:"ctr" mapstructure:"ctr"`

	Generator string `json:"gen" mapstructure:"gen"`
	Lanes     uint32 `json:"lanes" mapstructure:"lanes"`
	Draws     int    `json:"draws" mapstructure:"draws"`

	Distribution string `json:"dist" mapstructure:"dist"`
	Precision    string `json:"prec" mapstructure:"prec"`
}

type StreamSpec struct {
	Seed    []uint32 `json:"seed" mapstructure:"seed"`
	Counter []uint32 `json:"ctr" mapstructure:"ctr"`

	Generator string `json:"gen" mapstructure:"gen"`
	Lane      uint32 `json:"lane" mapstructure:"lane"`
	Count     int    `json:"n" mapstructure:"n"`
	Skip      uint64 `json:"skip" mapstructure:"skip"`

	Distribution string `json:"dist" mapstructure:"dist"`
	Precision    string `json:"prec" mapstructure:"prec"`
}

type JobHeader struct {
	Name      string `json:"name"`
	Submitted int64  `json:"ts"`
}

type Job struct {
	JobHeader

	Spec InnerSpec `json:"spec"`
}

func init() {
	gob.Register(MomentsSpec{})
	gob.Register(StreamSpec{})
}

func ParseJobs[T MomentsSpec | StreamSpec](body []byte) (jobs []Job, err error) {
	jobs = []Job{}

	if err = json.Unmarshal(body, &jobs); err != nil {
		return
	}

	for k, v := range jobs {
		var spec T
		err = mapstructure.Decode(v.Spec, &spec)
		if err != nil {
			err = errors.New(fmt.Sprintf("job at index %d was not of the correct type", k))
			return
		}

		jobs[k].Spec = spec
	}

	return
}
