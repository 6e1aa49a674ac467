// Package core holds the transport-independent pieces of the SynapsAI client:
// the error taxonomy, retry classification and backoff, the server-sent event
// decoder, and the stream and future types used by the synapsai package.
//
// # Errors
//
// Every failed call surfaces exactly one [*APIError]. Its [ErrorKind] says what
// went wrong, and the wrapped sentinel makes errors.Is work:
//
//	_, err := client.Chat.Completions.Create(ctx, params)
//	switch {
//	case errors.Is(err, core.ErrRateLimited):
//	    // back off at the application level
//	case core.KindOf(err) == core.KindAuthentication:
//	    // fix the key
//	}
//
// # Retries
//
// [ShouldRetry] classifies the [Outcome] of one attempt: transport failures,
// 429 and 5xx are retried, everything else is final. [DefaultRetryPolicy]
// waits min(0.5s*2^attempt + U[0, 0.5s), 30s) between attempts.
//
// # Streaming
//
// [Decoder] turns an event-stream body into [Event] values and stops at the
// [DONE] sentinel. [Stream] delivers typed values lazily over a channel:
//
//	stream, err := client.Chat.Completions.Stream(ctx, params)
//	if err != nil {
//	    return err
//	}
//	defer stream.Close()
//	for chunk := range stream.Ch {
//	    fmt.Print(chunk.Text())
//	}
//	if err := <-stream.Err; err != nil {
//	    return err
//	}
//
// # Concurrency
//
// [Go] runs a call on its own goroutine and returns a [Future]. [WaitAll]
// waits for several futures and cancels the rest on the first error.
package core
