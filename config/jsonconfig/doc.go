/*
Jsonconfig reads json configuration whose sections choose between several
implementations by a "Type" field.

To use:

 1. Create the Schema. List your configurable sections. Each section can be
    backed by several named Implementations.
 2. Schema.Parse parses bytes and creates a Configuration.
    a) for each section, pick the Implementation named by "Type"
    b) json.Unmarshal the section into that Implementation
 3. Type-assert each Implementation and build from it.

Example:

	schema := jsonconfig.Schema{
	 "Cluster": {
	  "static":  &StaticClusterConfig{},
	  "command": &CommandClusterConfig{},
	  "":        &StaticClusterConfig{Type: "static"},
	 },
	}

	conf, _ := schema.Parse([]byte(`{
	 "Cluster": {
	  "Type": "command",
	  "Command": ["get_free_nodes"]
	 }
	}`))

	fetcher, err := conf["Cluster"].(*CommandClusterConfig).Create()

Schema values are filled in place, so build a fresh Schema per Parse.
*/
package jsonconfig
