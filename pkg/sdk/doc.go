// Package sdk embeds the reviewguard fake-review classifier in a Go process.
//
// The client extracts the review signals in-process and classifies them with
// the built-in heuristic model, a remote inference backend, or a caller
// supplied Classifier:
//
//	client, _ := sdk.New()
//	v, err := client.Classify(ctx, "Great product, fast shipping, exactly as described!")
//	switch {
//	case errors.Is(err, sdk.ErrInvalidInput):
//	    // empty review, reject the form
//	case errors.Is(err, sdk.ErrClassifierUnavailable):
//	    // no verdict, do not store the review as genuine
//	case err == nil:
//	    fmt.Println(v.Label, v.Confidence)
//	}
//
// A remote backend is selected with WithInferenceBackend:
//
//	client, _ := sdk.New(
//	    sdk.WithInferenceBackend("http://ml.internal:8000", 2*time.Second),
//	    sdk.WithLogger(slog.Default()),
//	    sdk.WithPrometheus(prometheus.DefaultRegisterer),
//	)
package sdk
