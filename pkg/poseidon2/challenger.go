package poseidon2

import "github.com/shardmesh/shardmesh/pkg/field"

// Challenger is a duplex-sponge Fiat-Shamir transcript: observed values are
// buffered and absorbed into the permutation state a rate-block at a time,
// and samples are squeezed from the most recent permutation, with any
// pending unabsorbed input forcing a fresh duplex step first. This is what
// turns the PCS commitment and shards root hash into the challenge point
// chi used to open the commitment.
type Challenger struct {
	state        State
	inputBuffer  []field.Elem
	outputBuffer []field.Elem
}

// NewChallenger returns a fresh transcript with all-zero initial state.
func NewChallenger() *Challenger {
	return &Challenger{}
}

func (c *Challenger) duplex() {
	for i, v := range c.inputBuffer {
		c.state[i] = v
	}
	Permute(&c.state)
	c.outputBuffer = append(c.outputBuffer[:0], c.state[:Rate]...)
	c.inputBuffer = c.inputBuffer[:0]
}

// Observe absorbs a single field element into the transcript.
func (c *Challenger) Observe(x field.Elem) {
	c.outputBuffer = nil
	c.inputBuffer = append(c.inputBuffer, x)
	if len(c.inputBuffer) == Rate {
		c.duplex()
	}
}

// ObserveDigest absorbs all 8 elements of a hash digest.
func (c *Challenger) ObserveDigest(d Digest) {
	for _, v := range d {
		c.Observe(v)
	}
}

// Sample squeezes the next pseudorandom field element from the transcript.
func (c *Challenger) Sample() field.Elem {
	if len(c.inputBuffer) > 0 || len(c.outputBuffer) == 0 {
		c.duplex()
	}
	v := c.outputBuffer[0]
	c.outputBuffer = c.outputBuffer[1:]
	return v
}

// SampleExtElement squeezes a challenge in the cubic extension field E,
// used wherever the protocol needs a value outside the 31-bit base field
// for soundness.
func (c *Challenger) SampleExtElement() field.Ext3 {
	return field.Ext3{c.Sample(), c.Sample(), c.Sample()}
}
