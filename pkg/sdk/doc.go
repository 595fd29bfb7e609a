// Package segscope is a Go client for the combined segment search and RAG
// service (POST /api/combined).
//
// The client builds the fixed request envelope, performs exactly one HTTP
// call per search and returns the decoded reply. It never retries and adds
// no deadline of its own; bound a call with the context.
//
//	client, _ := segscope.New(segscope.WithBaseURL("http://localhost:8023"))
//	resp, err := client.Search(ctx, segscope.ActionRAG, "who designed the analytical engine?", 5, 0.3, 10)
//	var reqErr *segscope.RequestError
//	if errors.As(err, &reqErr) {
//	    log.Printf("service said %s", reqErr.StatusText)
//	}
//	for i, item := range resp.Data.Results {
//	    fmt.Printf("%d %.2f %s\n", i, item.Similarity, item.Caption)
//	}
package segscope
