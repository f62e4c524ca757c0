package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChangeNotifier(t *testing.T) {
	n := newChangeNotifier()

	a, releaseA := n.subscribe()
	b, releaseB := n.subscribe()

	n.publish(ChangeEvent{Kind: ChangeUpdated, RepoID: 1})
	assert.Equal(t, ChangeEvent{Kind: ChangeUpdated, RepoID: 1}, <-a)
	assert.Equal(t, ChangeEvent{Kind: ChangeUpdated, RepoID: 1}, <-b)

	releaseA()
	releaseA()
	_, open := <-a
	assert.False(t, open)

	n.publish(ChangeEvent{Kind: ChangeDeleted, RepoID: 2})
	assert.Equal(t, ChangeEvent{Kind: ChangeDeleted, RepoID: 2}, <-b)
	releaseB()
}

func TestChangeNotifier_SlowSubscriberDoesNotBlock(t *testing.T) {
	n := newChangeNotifier()
	ch, release := n.subscribe()
	defer release()

	for i := 0; i < subscriberBuffer*2; i++ {
		n.publish(ChangeEvent{Kind: ChangeIndex, RepoID: int64(i)})
	}
	assert.Len(t, ch, subscriberBuffer)
}
