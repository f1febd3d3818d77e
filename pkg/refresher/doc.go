// Package refresher provides the network collaborator that performs the
// actual token refresh call on behalf of the authentication state
// machine. The machine only tracks state and retry budgets; this package
// owns the transport.
//
// A Refresher exchanges a refresh token for a fresh token pair. The
// OAuth2Refresher implementation performs a standard OAuth2 refresh grant
// via golang.org/x/oauth2; StaticRefresher serves tests and wiring
// examples.
//
// The Runner drives a full refresh cycle against a machine: it moves the
// machine into refreshing, calls the Refresher, and reports the outcome
// back as LoginSuccess or TokenExpired, honoring the machine's retry
// budget and suggested backoff between attempts.
//
//	runner := refresher.NewRunner(machine, refresher.NewOAuth2Refresher(oauthCfg))
//	snapshot, err := runner.Run(ctx)
//	if errors.Is(err, authstate.ErrRefreshExhausted) {
//	    // session expired; re-authentication required
//	}
//
// RunAsync runs the same cycle in the background and returns a Future
// with Await, AwaitWithTimeout and IsComplete for callers that cannot
// block.
package refresher
