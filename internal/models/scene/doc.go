// Package scene contains everything known about MobileNeRF sample scenes.
// The two fixed catalogs (360-degree and forward-facing) and their Category live in Scene.go.
// The Manifest (mlp.json) and its obj_num validation live in Manifest.go.
// Target and Asset describe where a scene is fetched from and written to, and Plan.go derives the ordered file list of a scene.
// The SceneManager struct keeps an optional MongoDB history of completed downloads. BSON is used to interact with the database.
package scene
