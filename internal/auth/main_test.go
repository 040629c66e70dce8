// SPDX-License-Identifier: MIT

package auth

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// The resolver is documented as safe for unsynchronized concurrent use;
// run it under the race detector from many goroutines at once.
func TestResolve_Concurrent(t *testing.T) {
	res := NewResolver("env_ghi789", ContextHeaderProvider)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var (
				token string
				err   error
			)
			switch i % 3 {
			case 0:
				token, err = res.Resolve(context.Background(), Headers{"authorization": "Bearer X"})
				if err != nil || token != "X" {
					t.Errorf("header path: token=%q err=%v", token, err)
				}
			case 1:
				token, err = res.Resolve(context.Background(), Headers{})
				if err != nil || token != "env_ghi789" {
					t.Errorf("fallback path: token=%q err=%v", token, err)
				}
			default:
				ctx := ContextWithHeaders(context.Background(), Headers{"authorization": "token Y"})
				token, err = res.Resolve(ctx, nil)
				if err != nil || token != "Y" {
					t.Errorf("ambient path: token=%q err=%v", token, err)
				}
			}
		}(i)
	}
	wg.Wait()
}
