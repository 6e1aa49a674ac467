// Package synapsai is a client for the SynapsAI inference API.
//
// A [Client] holds the credentials, base URL and transport. Resource
// services hang off it: Chat, Completions, Embeddings, Images, Audio,
// Classifications, QuestionAnswering, FillMask and Models.
//
// Every call goes through one executor. Transport failures, 429 and 5xx
// responses are retried with exponential backoff up to MaxRetries attempts in
// total; every other failure is returned at once. Failures are always a
// *core.APIError, whose Kind tells authentication, rate limit, server,
// validation and transport problems apart.
//
// Calls block the calling goroutine. [Client.Go] runs a raw request on its
// own goroutine and returns a core.Future; core.Go does the same for any
// service method:
//
//	f := core.Go(ctx, func(ctx context.Context) (*synapsai.EmbeddingResponse, error) {
//	    return client.Embeddings.Create(ctx, params)
//	})
//	resp, err := f.Wait(ctx)
//
// Streaming methods return a core.Stream once the response headers arrive.
// Only opening the stream is retried.
package synapsai
