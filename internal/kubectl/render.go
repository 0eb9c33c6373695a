package kubectl

import (
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"sigs.k8s.io/yaml"
)

// Manifest renders the deployment as an apps/v1 Deployment document.
// Rendering is pure: field values flow into the typed object, so shell or
// YAML injection through descriptor fields is structurally impossible.
func (d Deployment) Manifest() ([]byte, error) {
	replicas, err := d.replicaCount()
	if err != nil {
		return nil, err
	}

	labels := map[string]string{"app": d.Name}
	port := d.Port
	if port == 0 {
		port = 80
	}

	obj := appsv1.Deployment{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "apps/v1",
			Kind:       "Deployment",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      d.Name,
			Namespace: d.namespaceOrDefault(),
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: &replicas,
			Selector: &metav1.LabelSelector{MatchLabels: labels},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: labels},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{{
						Name:  d.Name,
						Image: d.Image,
						Ports: []corev1.ContainerPort{{
							ContainerPort: int32(port),
						}},
					}},
				},
			},
		},
	}

	return yaml.Marshal(&obj)
}

// Manifest renders the service as a v1 Service document with a single TCP
// port mapping. TargetPort falls back to Port when not supplied.
func (s Service) Manifest() ([]byte, error) {
	obj := corev1.Service{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "Service",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      s.Name,
			Namespace: s.namespaceOrDefault(),
		},
		Spec: corev1.ServiceSpec{
			Selector: map[string]string{"app": s.Name},
			Type:     corev1.ServiceType(s.typeOrDefault()),
			Ports: []corev1.ServicePort{{
				Protocol:   corev1.ProtocolTCP,
				Port:       int32(s.Port),
				TargetPort: intstr.FromInt32(int32(s.targetPortOrDefault())),
			}},
		},
	}

	return yaml.Marshal(&obj)
}
