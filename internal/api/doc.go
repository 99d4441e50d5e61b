// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package api serves the recommendation operations over HTTP using the chi router.

Routes:

	GET       /api/v1/autocomplete?term=&limit=
	GET       /api/v1/recommendations/auto?location=&k=
	GET, POST /api/v1/recommendations?title=&location=&k=   (POST form: movieTitle)
	GET       /api/v1/recommendations/filtered?filterType=&filterValue=&k=
	GET       /api/v1/recommendations/year?year=&k=
	GET, POST /api/v1/movies/details?title=                  (POST form: movie_title)
	GET       /health/live, /health/ready
	GET       /metrics

Every JSON response uses the models.APIResponse envelope. Query parameters are
bound into validation request structs; recommender errors map to status codes:

	*recommend.InvalidArgumentError  400 VALIDATION_ERROR
	*recommend.DetailAssemblyError   404 NOT_FOUND ("Movie details not found.")
	recommend.ErrIndexNotReady       503 SERVICE_UNAVAILABLE
	context.DeadlineExceeded         504 TIMEOUT
*/
package api
