package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/rolegate/internal/access/domain"
	"github.com/allisson/rolegate/internal/access/service"
	"github.com/allisson/rolegate/internal/access/store"
	"github.com/allisson/rolegate/internal/access/usecase"
)

func receiveBag(t *testing.T, feed *usecase.VisibilityFeed) domain.FlagBag {
	t.Helper()
	select {
	case bag, ok := <-feed.C():
		require.True(t, ok, "feed closed")
		return bag
	case <-time.After(time.Second):
		require.FailNow(t, "no bag delivered")
		return domain.FlagBag{}
	}
}

func TestVisibilityFeed(t *testing.T) {
	resolver := service.NewVisibilityResolver(domain.DefaultPolicy())

	t.Run("Success_StartsWithCurrentSnapshot", func(t *testing.T) {
		s := store.New()
		defer s.Close()
		s.Replace([]string{"cashier"})

		feed, err := usecase.NewVisibilityFeed(s, resolver)
		require.NoError(t, err)
		defer feed.Close()

		bag := receiveBag(t, feed)
		assert.True(t, bag.Get(domain.FlagCashierPayment))
		assert.False(t, bag.Get(domain.FlagMedicalRequests))
	})

	t.Run("Success_FollowsReplacementsInOrder", func(t *testing.T) {
		s := store.New()
		defer s.Close()

		feed, err := usecase.NewVisibilityFeed(s, resolver)
		require.NoError(t, err)
		defer feed.Close()

		updates := [][]string{{"doctor"}, {"finance-approver", "doctor"}, {"supervisor"}, nil}
		for _, roles := range updates {
			s.Replace(roles)
		}

		assert.True(t, resolver.Resolve(domain.NewRoleSet()).Equal(receiveBag(t, feed)))
		for _, roles := range updates {
			want := resolver.Resolve(domain.NewRoleSet(roles...))
			assert.True(t, want.Equal(receiveBag(t, feed)), "roles %v", roles)
		}
	})

	t.Run("Success_ClosedWhenStoreTornDown", func(t *testing.T) {
		s := store.New()

		feed, err := usecase.NewVisibilityFeed(s, resolver)
		require.NoError(t, err)
		defer feed.Close()

		receiveBag(t, feed)
		s.Close()

		_, ok := <-feed.C()
		assert.False(t, ok)
	})

	t.Run("Success_CloseReleasesSubscription", func(t *testing.T) {
		s := store.New()
		defer s.Close()

		feed, err := usecase.NewVisibilityFeed(s, resolver)
		require.NoError(t, err)

		s.Replace([]string{"doctor"})
		feed.Close()
		feed.Close()

		assert.Equal(t, 0, s.Subscribers())
	})

	t.Run("Error_StoreClosed", func(t *testing.T) {
		s := store.New()
		s.Close()

		feed, err := usecase.NewVisibilityFeed(s, resolver)
		assert.Nil(t, feed)
		assert.ErrorIs(t, err, domain.ErrStoreClosed)
	})
}
