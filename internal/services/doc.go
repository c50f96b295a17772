// Package services contains the implementation of all services used by the downloader.
//
// The services are created in main, and are given the logger and the configuration they need.
//
// Current services include:
//   - Select:
//     Maps the user's intent (one scene or all of them) onto jobs, one per scene category
//   - SceneFetcher:
//     Downloads the scenes of a job one by one, driven by the obj_num of each scene's mlp.json
//   - HTTPTransport:
//     Fetches single files over HTTP (fasthttp) and writes them to disk
//   - SceneChecker:
//     Reports which files of already downloaded scenes are missing, without any network access,
//     next to the recorded download of each scene when a history is configured
//   - AMPQService:
//     Publishes a message per completed scene to an ampq 0.9.1 broker
package services
