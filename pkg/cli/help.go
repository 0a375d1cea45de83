package cli

import "fmt"

// ShowHelp displays the help message.
func ShowHelp() {
	fmt.Print(`coralstor-console: CoralStor cluster administration console
Usage:
  coralstor-console [options]
  coralstor-console [options] status
  coralstor-console [options] services
  coralstor-console [options] create [create options]
  coralstor-console [options] delete -name <service>
  coralstor-console [options] events [events options]

Commands:
  (default)   Launch the interactive dashboard
  status      Print the cluster status as JSON
  services    List provisioned storage services
  create      Create a storage service
  delete      Delete a storage service
  events      Print recent cluster events

Options:
  -config string      path to console.json config file
  -core-url string    CoralStor core base URL
  -api-key string     API key for authenticating with core
  -tls-skip-verify    skip TLS certificate verification
  -debug              enable debug logging
  -help               show this help message

Options for create:
  -name string      service name
  -type string      service type: block, file, or object (default "block")
  -backend string   backend pool (required for object services)
  -size string      service size (e.g. 10GiB)
  -replicas int     replica count (0 uses the cluster default)

Options for events:
  -limit int    number of recent events to fetch (default 20)
  -follow       stream events until interrupted

Environment:
  CORALSTOR_CORE_URL, CORALSTOR_API_KEY, CORALSTOR_POLL_INTERVAL
  override the corresponding config file values.

Examples:
  coralstor-console -core-url https://core:8090 -api-key $KEY
  coralstor-console -config /etc/coralstor/console.json services
  coralstor-console create -name archive -type file -size 100GiB -replicas 3
  coralstor-console events -follow
`)
}
