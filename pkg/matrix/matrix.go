package matrix

import (
	"bytes"
	"encoding/json"

	"github.com/psantana5/tsperf-matrix/pkg/models"
	"gopkg.in/yaml.v3"
)

// Bucket holds the jobs assigned to one agent, keyed by job name.
// Names keep the position of their first insertion.
type Bucket struct {
	order []models.JobName
	jobs  map[models.JobName]models.Job
}

func newBucket() *Bucket {
	return &Bucket{jobs: make(map[models.JobName]models.Job)}
}

// Put stores a job under its name, replacing any job with the same name.
// It returns the replaced job, if any.
func (b *Bucket) Put(job models.Job) (models.Job, bool) {
	prev, replaced := b.jobs[job.Name]
	if !replaced {
		b.order = append(b.order, job.Name)
	}
	b.jobs[job.Name] = job
	return prev, replaced
}

// Get returns the job stored under name
func (b *Bucket) Get(name models.JobName) (models.Job, bool) {
	job, ok := b.jobs[name]
	return job, ok
}

// Len returns the number of jobs in the bucket
func (b *Bucket) Len() int {
	return len(b.order)
}

// Names returns job names in insertion order
func (b *Bucket) Names() []models.JobName {
	return append([]models.JobName(nil), b.order...)
}

// Jobs returns the jobs in insertion order
func (b *Bucket) Jobs() []models.Job {
	jobs := make([]models.Job, 0, len(b.order))
	for _, name := range b.order {
		jobs = append(jobs, b.jobs[name])
	}
	return jobs
}

// MarshalJSON encodes the bucket as an object in insertion order
func (b *Bucket) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range b.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := EncodeJSON(string(name))
		if err != nil {
			return nil, err
		}
		value, err := EncodeJSON(b.jobs[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the bucket as a mapping in insertion order
func (b *Bucket) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range b.order {
		value := &yaml.Node{}
		if err := value.Encode(b.jobs[name]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: string(name)},
			value,
		)
	}
	return node, nil
}

// Matrix maps agents to their job buckets. Every agent it was created with
// has a bucket, empty or not.
type Matrix struct {
	agents  []models.AgentID
	buckets map[models.AgentID]*Bucket
}

// NewMatrix creates a matrix with the "any" bucket followed by one bucket per agent
func NewMatrix(agents []models.AgentID) *Matrix {
	m := &Matrix{buckets: make(map[models.AgentID]*Bucket)}
	m.bucket(models.AgentAny)
	for _, a := range agents {
		m.bucket(a)
	}
	return m
}

func (m *Matrix) bucket(agent models.AgentID) *Bucket {
	b, ok := m.buckets[agent]
	if !ok {
		b = newBucket()
		m.buckets[agent] = b
		m.agents = append(m.agents, agent)
	}
	return b
}

// Agents returns the agents in output order
func (m *Matrix) Agents() []models.AgentID {
	return append([]models.AgentID(nil), m.agents...)
}

// Bucket returns the bucket of an agent, or nil if the matrix has no such agent
func (m *Matrix) Bucket(agent models.AgentID) *Bucket {
	return m.buckets[agent]
}

// Len returns the total number of jobs across all buckets
func (m *Matrix) Len() int {
	total := 0
	for _, b := range m.buckets {
		total += b.Len()
	}
	return total
}

// MarshalJSON encodes the matrix as an object of buckets in agent order
func (m *Matrix) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, agent := range m.agents {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := EncodeJSON(string(agent))
		if err != nil {
			return nil, err
		}
		value, err := m.buckets[agent].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the matrix as a mapping of buckets in agent order
func (m *Matrix) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, agent := range m.agents {
		value := &yaml.Node{}
		if err := value.Encode(m.buckets[agent]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: string(agent)},
			value,
		)
	}
	return node, nil
}

// EncodeJSON marshals v compactly without escaping HTML characters and
// without a trailing newline.
func EncodeJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
