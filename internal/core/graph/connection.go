package graph

// Connection is a directed edge from an output pin to an input pin
type Connection struct {
	Source *Pin
	Target *Pin
}

// SourceNode returns the node owning the source pin
func (c *Connection) SourceNode() *Node {
	return c.Source.node
}

// TargetNode returns the node owning the target pin
func (c *Connection) TargetNode() *Node {
	return c.Target.node
}
