package checkpoint_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Pallinder/go-randomdata"
	"go.llib.dev/testcase"
	"go.llib.dev/testcase/assert"
	"go.llib.dev/testcase/clock/timecop"
	"go.llib.dev/testcase/random"

	"go.llib.dev/resumable/pkg/checkpoint"
	"go.llib.dev/resumable/pkg/partitionkit"
	"go.llib.dev/resumable/pkg/resumekit"
)

var rnd = random.New(random.CryptoSeed{})

func TestTake(t *testing.T) {
	s := testcase.NewSpec(t)

	var (
		name   = testcase.Let(s, func(t *testcase.T) string { return randomdata.SillyName() })
		values = testcase.Let(s, func(t *testcase.T) []int {
			return random.Slice(t.Random.IntB(1, 42), t.Random.Int)
		})
		consumed = testcase.Let(s, func(t *testcase.T) int { return t.Random.IntB(0, len(values.Get(t))) })
		subject  = testcase.Let(s, func(t *testcase.T) resumekit.Iterator[int] {
			itr := resumekit.Slice(values.Get(t))
			_, err := resumekit.Take(itr, consumed.Get(t))
			assert.Must(t).NoError(err)
			return itr
		})
	)
	act := func(t *testcase.T) (checkpoint.Snapshot, error) {
		return checkpoint.Take(name.Get(t), subject.Get(t))
	}

	s.Test("the snapshot holds the state of the iterator with its metadata", func(t *testcase.T) {
		now := time.Now().AddDate(0, 0, -1*t.Random.IntB(1, 42)).Truncate(time.Second)
		timecop.Travel(t, now, timecop.Freeze)

		snapshot, err := act(t)
		assert.Must(t).NoError(err)
		assert.Must(t).NotEmpty(snapshot.ID)
		assert.Must(t).Equal(name.Get(t), snapshot.Name)
		assert.Must(t).Equal(resumekit.KindSlice, snapshot.Kind)
		assert.Must(t).True(now.Equal(snapshot.CreatedAt))
		assert.Must(t).NotEmpty(snapshot.Checksum)
		assert.Must(t).NoError(snapshot.Verify())

		fresh := resumekit.Slice(values.Get(t))
		assert.Must(t).NoError(fresh.Resume(snapshot.State))
		rest, err := resumekit.Collect(fresh)
		assert.Must(t).NoError(err)
		assert.Must(t).Equal(len(values.Get(t))-consumed.Get(t), len(rest))
	})

	s.Test("every snapshot has its own ID", func(t *testcase.T) {
		a, err := act(t)
		assert.Must(t).NoError(err)
		b, err := act(t)
		assert.Must(t).NoError(err)
		assert.Must(t).NotEqual(a.ID, b.ID)
		assert.Must(t).Equal(a.Checksum, b.Checksum)
	})

	s.When("name is empty", func(s *testcase.Spec) {
		name.LetValue(s, "")

		s.Then("it is rejected", func(t *testcase.T) {
			_, err := act(t)
			assert.Must(t).ErrorIs(checkpoint.ErrMissingName, err)
		})
	})

	s.When("the iterator can't be checkpointed", func(s *testcase.Spec) {
		subject.Let(s, func(t *testcase.T) resumekit.Iterator[int] {
			return resumekit.Range(0, 1, 0)
		})

		s.Then("the error is returned", func(t *testcase.T) {
			_, err := act(t)
			assert.Must(t).ErrorIs(resumekit.ErrInvalidArgument, err)
		})
	})
}

func TestSnapshot_Verify(t *testing.T) {
	s := testcase.NewSpec(t)

	snapshot := testcase.Let(s, func(t *testcase.T) checkpoint.Snapshot {
		itr := partitionkit.Partition(2, []int{1, 2, 3, 4, 5}, partitionkit.Pad(0))
		assert.Must(t).True(itr.Next())
		snapshot, err := checkpoint.Take(randomdata.SillyName(), itr)
		assert.Must(t).NoError(err)
		return snapshot
	})

	s.Test("an untouched snapshot is valid", func(t *testcase.T) {
		assert.Must(t).NoError(snapshot.Get(t).Verify())
	})

	s.Test("a snapshot with an altered state is rejected", func(t *testcase.T) {
		s := snapshot.Get(t)
		s.State.Values = map[string]any{"n": json.Number("3"), "padded": true, "pad": json.Number("0"), "done": false}
		assert.Must(t).ErrorIs(checkpoint.ErrChecksumMismatch, s.Verify())
	})

	s.Test("a snapshot with an altered kind is rejected", func(t *testcase.T) {
		s := snapshot.Get(t)
		s.Kind = partitionkit.KindPartitionAll
		assert.Must(t).ErrorIs(checkpoint.ErrChecksumMismatch, s.Verify())
	})
}

func TestCodec(t *testing.T) {
	codecs := map[string]checkpoint.Codec{
		"json":     checkpoint.JSONCodec{},
		"yaml":     checkpoint.YAMLCodec{},
		"lz4+json": checkpoint.LZ4Codec{Codec: checkpoint.JSONCodec{}},
		"lz4+yaml": checkpoint.LZ4Codec{Codec: checkpoint.YAMLCodec{}},
	}
	for name, codec := range codecs {
		t.Run(name, func(t *testing.T) {
			s := testcase.NewSpec(t)

			var (
				values = testcase.Let(s, func(t *testcase.T) []int {
					return random.Slice(t.Random.IntB(1, 42), t.Random.Int)
				})
				mk = func(t *testcase.T) resumekit.Iterator[[]int] {
					return partitionkit.Partition(3, values.Get(t), partitionkit.Pad(-1))
				}
			)

			s.Test("a decoded snapshot resumes the iterator where it was taken", func(t *testcase.T) {
				expected, err := resumekit.Collect(mk(t))
				assert.Must(t).NoError(err)
				n := t.Random.IntB(0, len(expected))

				itr := mk(t)
				_, err = resumekit.Take(itr, n)
				assert.Must(t).NoError(err)
				snapshot, err := checkpoint.Take(randomdata.SillyName(), itr)
				assert.Must(t).NoError(err)

				data, err := codec.Marshal(snapshot)
				assert.Must(t).NoError(err)
				var decoded checkpoint.Snapshot
				assert.Must(t).NoError(codec.Unmarshal(data, &decoded))

				assert.Must(t).Equal(snapshot.ID, decoded.ID)
				assert.Must(t).Equal(snapshot.Name, decoded.Name)
				assert.Must(t).True(snapshot.CreatedAt.Equal(decoded.CreatedAt))
				assert.Must(t).NoError(decoded.Verify())

				fresh := mk(t)
				assert.Must(t).NoError(fresh.Resume(decoded.State))
				rest, err := resumekit.Collect(fresh)
				assert.Must(t).NoError(err)
				assert.Must(t).Equal(len(expected)-n, len(rest))
				if 0 < len(rest) {
					assert.Must(t).Equal(expected[n:], rest)
				}
			})

			s.Test("garbage is rejected", func(t *testcase.T) {
				var decoded checkpoint.Snapshot
				assert.Must(t).ErrorIs(checkpoint.ErrMalformed, codec.Unmarshal([]byte("{:\x00\x01"), &decoded))
			})
		})
	}
}

func TestPeek(t *testing.T) {
	s := testcase.NewSpec(t)

	snapshot := testcase.Let(s, func(t *testcase.T) checkpoint.Snapshot {
		snapshot, err := checkpoint.Take(randomdata.SillyName(), resumekit.Range(0, t.Random.IntB(1, 42), 1))
		assert.Must(t).NoError(err)
		return snapshot
	})

	s.Test("the header of a JSON encoded snapshot is read", func(t *testcase.T) {
		data, err := checkpoint.JSONCodec{}.Marshal(snapshot.Get(t))
		assert.Must(t).NoError(err)

		header, err := checkpoint.Peek(data)
		assert.Must(t).NoError(err)
		assert.Must(t).Equal(snapshot.Get(t).ID, header.ID)
		assert.Must(t).Equal(snapshot.Get(t).Name, header.Name)
		assert.Must(t).Equal(resumekit.KindRange, header.Kind)
		assert.Must(t).True(snapshot.Get(t).CreatedAt.Equal(header.CreatedAt))
	})

	s.Test("non JSON input is rejected", func(t *testcase.T) {
		data, err := checkpoint.YAMLCodec{}.Marshal(snapshot.Get(t))
		assert.Must(t).NoError(err)
		_, err = checkpoint.Peek(data)
		assert.Must(t).ErrorIs(checkpoint.ErrMalformed, err)
	})

	s.Test("JSON without the header fields is rejected", func(t *testcase.T) {
		_, err := checkpoint.Peek([]byte(`{"state":{"kind":"range"}}`))
		assert.Must(t).ErrorIs(checkpoint.ErrMalformed, err)
	})
}
