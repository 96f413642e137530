package domain

// PortBinding pairs the advisory container port with the host port it was
// published on. HostPort is empty while the container is not running.
type PortBinding struct {
	ContainerPort int    `json:"container_port"`
	HostPort      string `json:"host_port"`
}

// Container represents a container instance started from a built image.
type Container struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Image     string        `json:"image"`
	Status    string        `json:"status"`
	State     string        `json:"state"` // running, exited, etc.
	IPAddress string        `json:"ip_address,omitempty"`
	Ports     []PortBinding `json:"ports,omitempty"`
}
