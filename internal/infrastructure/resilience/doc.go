/*
Package resilience provides a circuit breaker for outbound calls.

The breaker short-circuits calls to a dependency that keeps failing. It
never retries: a call made while the circuit is open fails at once with
ErrCircuitOpen, and the caller reports that like any other failure.

# Usage

	breaker := resilience.New("predict", resilience.Settings{
		MaxFailures: 5,
		Cooldown:    30 * time.Second,
	})

	result, err := resilience.Execute(breaker, func() (*chat.DetectionResult, error) {
		return client.Predict(ctx, key)
	})

# States

	Closed --[MaxFailures consecutive failures]-> Open --[Cooldown]-> Half-Open
	Half-Open --[probe succeeds]-> Closed
	Half-Open --[probe fails]-> Open

Only one probe call is admitted while half-open.
*/
package resilience
